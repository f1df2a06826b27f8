package bdaterr

import "errors"

// Kind names a class of error for reports and test expectations.
type Kind string

const (
	KindNone                    Kind = ""
	KindOther                   Kind = "Other"
	KindMissingRequiredArgument Kind = "MissingRequiredArgument"
	KindUnknownFileType         Kind = "UnknownFileType"
	KindNotLegacy               Kind = "NotLegacy"
	KindNotModern               Kind = "NotModern"
	KindMissingSchema           Kind = "DeserMissingSchema"
	KindOutdatedSchema          Kind = "DeserOutdatedSchema"
	KindMissingTypeInfo         Kind = "DeserMissingTypeInfo"
	KindIncompleteRow           Kind = "DeserIncompleteRow"
	KindExtraFields             Kind = "DeserExtraFields"
	KindMaxDuplicateColumns     Kind = "DeserMaxDuplicateColumns"
	KindDuplicateMismatch       Kind = "DeserDuplicateMismatch"
	KindHeaderMismatch          Kind = "DeserHeaderMismatch"
	KindCoercion                Kind = "DeserCoercion"
)

// KindOf classifies err, looking through wrapping. It returns KindNone for a
// nil error and KindOther for errors outside this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, ErrMissingSchema):
		return KindMissingSchema
	case errors.Is(err, ErrNotLegacy):
		return KindNotLegacy
	case errors.Is(err, ErrNotModern):
		return KindNotModern
	case isA[*MissingArgumentError](err):
		return KindMissingRequiredArgument
	case isA[*UnknownFileTypeError](err):
		return KindUnknownFileType
	case isA[*OutdatedSchemaError](err):
		return KindOutdatedSchema
	case isA[*MissingTypeInfoError](err):
		return KindMissingTypeInfo
	case isA[*IncompleteRowError](err):
		return KindIncompleteRow
	case isA[*ExtraFieldsError](err):
		return KindExtraFields
	case isA[*MaxDuplicateColumnsError](err):
		return KindMaxDuplicateColumns
	case isA[*DuplicateMismatchError](err):
		return KindDuplicateMismatch
	case isA[*HeaderMismatchError](err):
		return KindHeaderMismatch
	case isA[*CoercionError](err):
		return KindCoercion
	}
	return KindOther
}

func isA[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
