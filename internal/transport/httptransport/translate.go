package httptransport

import (
	"errors"
	"net/http"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/ports/errcode"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/mappings"
)

func FromServiceError(err error) errcode.Code {
	switch {
	case errors.Is(err, mappings.ErrMappingNotFound):
		return errcode.NotFoundMapping
	case errors.Is(err, mappings.ErrMappingExists):
		return errcode.MappingExists
	case errors.Is(err, mappings.ErrInvalidMapping):
		return errcode.InvalidMapping
	default:
		return errcode.Internal
	}
}

// httpStatus - код ответа и значение поля "error" для кода ошибки
func httpStatus(code errcode.Code) (int, string) {
	switch code {
	case errcode.NotFoundPrice:
		return http.StatusNotFound, "price_not_found"
	case errcode.NotFoundMapping:
		return http.StatusNotFound, "mapping_not_found"
	case errcode.MappingExists:
		return http.StatusConflict, "mapping_exists"
	case errcode.InvalidMapping:
		return http.StatusBadRequest, "invalid_mapping"
	case errcode.BadRequest:
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_server_error"
	}
}
