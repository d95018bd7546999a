package get_available_times

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса свободного времени мастера
type Request struct {
	MasterID    int64     // ID мастера
	ProcedureID *int64    // ID процедуры; без нее длительность по умолчанию
	Date        time.Time // Дата (без времени)
}

// Response модель ответа со свободными временами начала
type Response struct {
	Date     time.Time
	MasterID int64
	Times    []types.TimeString // Отсортированы по возрастанию, формат HH:MM
}
