package domain

// Master мастер салона; ресурс, за который конкурируют записи
type Master struct {
	ID             int64
	Name           string
	Phone          *string
	TelegramChatID *int64
	IsActive       bool
	ProcedureIDs   []int64
}

// OffersProcedure returns true if the master performs the procedure
func (m *Master) OffersProcedure(procedureID int64) bool {
	for _, id := range m.ProcedureIDs {
		if id == procedureID {
			return true
		}
	}
	return false
}

// Procedure услуга салона
type Procedure struct {
	ID              int64
	Title           string
	DurationMinutes int
	Price           float64
	IsAvailable     bool
}

// EffectiveDuration длительность процедуры или значение по умолчанию
func (p *Procedure) EffectiveDuration() int {
	if p == nil || p.DurationMinutes <= 0 {
		return DefaultProcedureDurationMinutes
	}
	return p.DurationMinutes
}

// ClientChat связь телефона клиента с чатом Telegram
type ClientChat struct {
	Phone  string
	ChatID int64
}
