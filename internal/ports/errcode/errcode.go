package errcode

type Code string

const (
	NotFoundPrice   Code = "NOT_FOUND_PRICE"
	NotFoundMapping Code = "NOT_FOUND_MAPPING"

	MappingExists  Code = "MAPPING_EXISTS"
	InvalidMapping Code = "INVALID_MAPPING"

	BadRequest Code = "BAD_REQUEST"
	Internal   Code = "INTERNAL_ERROR"
)
