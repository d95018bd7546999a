package send_reminders

import "errors"

// ErrInternal возвращается, когда прогон не смог загрузить данные
var ErrInternal = errors.New("send_reminders: internal error")
