package send_reminders

// Result итог одного прогона
type Result struct {
	Candidates int // ожидают напоминания
	Due        int // время напоминания наступило
	Sent       int // доставлены
	Failed     int // не доставлены, будут повторены в следующем прогоне
	Skipped    int // уже захвачены другим прогоном
}
