package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ввод/вывод и декодирование документов
	IOLoadFileError Code = 1000
	IODecodeError   Code = 1001
	IOUnknownFormat Code = 1002

	// Семантические
	SemaInfo                    Code = 3000
	SemaTypeNotFound            Code = 3001
	SemaGenericArity            Code = 3002
	SemaVariableNotFound        Code = 3003
	SemaFieldNotFound           Code = 3004
	SemaUnknownField            Code = 3005
	SemaDuplicateField          Code = 3006
	SemaTypeMismatch            Code = 3007
	SemaInvalidOperand          Code = 3008
	SemaInvalidIndexAccess      Code = 3009
	SemaInvalidFieldAccess      Code = 3010
	SemaInvalidDeref            Code = 3011
	SemaArgumentCount           Code = 3012
	SemaReturnMismatch          Code = 3013
	SemaAssignMismatch          Code = 3014
	SemaNotAssignable           Code = 3015
	SemaNotAddressable          Code = 3016
	SemaCannotInferGenerics     Code = 3017
	SemaGenericFamilyMismatch   Code = 3018
	SemaRestrictionNotSatisfied Code = 3019
	SemaInterfaceNotFound       Code = 3020
	SemaInterfaceMethodNotFound Code = 3021
	SemaInvalidLiteral          Code = 3022
	SemaLiteralOutOfRange       Code = 3023
	SemaInvalidCast             Code = 3024
	SemaDuplicateDefinition     Code = 3025
	SemaUnknownModule           Code = 3026
	SemaInstantiationDepth      Code = 3027
	SemaEntrypointNotFound      Code = 3028
	SemaRecursiveType           Code = 3029
	SemaMissingBody             Code = 3030
	SemaMethodNotFound          Code = 3031

	// Наблюдаемость
	ObsInfo    Code = 8000
	ObsTimings Code = 8001

	// Внутренние ошибки компилятора
	InternalInvariant Code = 9001
	InternalFailure   Code = 9002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	IOLoadFileError:             "Failed to load file",
	IODecodeError:               "Malformed syntactic module document",
	IOUnknownFormat:             "Unknown document format",
	SemaInfo:                    "Semantic information",
	SemaTypeNotFound:            "Type not found",
	SemaGenericArity:            "Wrong number of generic arguments",
	SemaVariableNotFound:        "Variable not found",
	SemaFieldNotFound:           "Field not found",
	SemaUnknownField:            "Unknown field in struct literal",
	SemaDuplicateField:          "Duplicate field in struct literal",
	SemaTypeMismatch:            "Type mismatch",
	SemaInvalidOperand:          "Invalid operand",
	SemaInvalidIndexAccess:      "Invalid index access",
	SemaInvalidFieldAccess:      "Invalid field access",
	SemaInvalidDeref:            "Invalid dereference",
	SemaArgumentCount:           "Wrong number of arguments",
	SemaReturnMismatch:          "Return type mismatch",
	SemaAssignMismatch:          "Assignment type mismatch",
	SemaNotAssignable:           "Expression is not assignable",
	SemaNotAddressable:          "Expression is not addressable",
	SemaCannotInferGenerics:     "Cannot infer generic arguments",
	SemaGenericFamilyMismatch:   "Generic family mismatch",
	SemaRestrictionNotSatisfied: "Generic restriction not satisfied",
	SemaInterfaceNotFound:       "Interface not found",
	SemaInterfaceMethodNotFound: "Method is not part of interface",
	SemaInvalidLiteral:          "Invalid literal",
	SemaLiteralOutOfRange:       "Literal out of range",
	SemaInvalidCast:             "Invalid cast",
	SemaDuplicateDefinition:     "Duplicate definition",
	SemaUnknownModule:           "Unknown module",
	SemaInstantiationDepth:      "Instantiation depth exceeded",
	SemaEntrypointNotFound:      "Entry point not found",
	SemaRecursiveType:           "Recursive type has infinite size",
	SemaMissingBody:             "Function has no body",
	SemaMethodNotFound:          "Method implementation not found",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
	InternalInvariant:           "Internal compiler invariant violated",
	InternalFailure:             "Internal compiler failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
