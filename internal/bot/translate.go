package bot

import "github.com/NastyaGoryachaya/crypto-price-oracle/internal/ports/errcode"

func translateBotError(code errcode.Code) string {
	switch code {
	case errcode.NotFoundPrice:
		return "Данные о цене не найдены"
	case errcode.BadRequest:
		return "Некорректный запрос"
	default:
		return "Внутренняя ошибка сервиса, попробуйте позже"
	}
}
