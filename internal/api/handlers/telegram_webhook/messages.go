package telegram_webhook

const (
	msgStart = "Здравствуйте! Чтобы получать уведомления о записях, поделитесь номером телефона, " +
		"который вы указываете при записи."
	msgContactSaved    = "Спасибо! Номер сохранен, уведомления о записях будут приходить в этот чат."
	msgForeignContact  = "Пожалуйста, отправьте свой номер кнопкой ниже."
	msgContactFailed   = "Не удалось сохранить номер, попробуйте позже."
	msgInvalidUID      = "Некорректный идентификатор записи."
	msgNotFound        = "Запись не найдена."
	msgUnauthorized    = "У вас нет прав на изменение этой записи."
	msgCannotConfirm   = "Запись уже не может быть подтверждена."
	msgCannotCancel    = "Запись уже не может быть отменена."
	msgInternal        = "Произошла ошибка, попробуйте позже."
	msgCallbackConfirm = "Запись подтверждена ✅"
	msgCallbackCancel  = "Запись отменена ❌"
)

const (
	cmdStart   = "/start"
	cmdConfirm = "/confirm_"
	cmdCancel  = "/cancel_"
)
