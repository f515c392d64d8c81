// Package requesthandler implements the control-protocol request
// layer: the Request parameter validation and resource resolution
// pipeline, and the registry of request handlers built on it.
package requesthandler

// Status is a protocol status code reported to the remote caller.
type Status int

// Protocol status codes. The numeric values are part of the wire
// protocol and must not be renumbered.
const (
	// StatusUnknown is the zero value, never sent.
	StatusUnknown Status = 0
	// StatusNoError means no request was processed (internal use).
	StatusNoError Status = 10
	// StatusSuccess means the request succeeded.
	StatusSuccess Status = 100

	// StatusMissingRequestType means the envelope carried no request type.
	StatusMissingRequestType Status = 203
	// StatusUnknownRequestType means no handler exists for the request type.
	StatusUnknownRequestType Status = 204
	// StatusGenericError means the handler failed for an unclassified reason.
	StatusGenericError Status = 205

	// StatusMissingRequestData means the request data document is missing
	// or invalid (non-object).
	StatusMissingRequestData Status = 300
	// StatusMissingRequestParameter means a required parameter is absent
	// or null.
	StatusMissingRequestParameter Status = 301

	// StatusInvalidRequestParameterType means a parameter has the wrong
	// dynamic type.
	StatusInvalidRequestParameterType Status = 400
	// StatusRequestParameterOutOfRange means a numeric parameter is
	// outside its inclusive bounds.
	StatusRequestParameterOutOfRange Status = 402
	// StatusRequestParameterEmpty means a parameter is empty where a
	// non-empty value is required.
	StatusRequestParameterEmpty Status = 403

	// StatusResourceNotFound means a referenced resource does not exist.
	StatusResourceNotFound Status = 600
	// StatusResourceAlreadyExists means a resource to be created exists.
	StatusResourceAlreadyExists Status = 601
	// StatusInvalidResourceType means a resolved resource is of the
	// wrong kind.
	StatusInvalidResourceType Status = 602

	// StatusResourceCreationFailed means a resource could not be created.
	StatusResourceCreationFailed Status = 700
	// StatusResourceActionFailed means an action on a resource failed.
	StatusResourceActionFailed Status = 701
	// StatusRequestProcessingFailed means the handler hit an internal error.
	StatusRequestProcessingFailed Status = 702
)

// String returns the symbolic name of the status code.
func (s Status) String() string {
	switch s {
	case StatusNoError:
		return "NoError"
	case StatusSuccess:
		return "Success"
	case StatusMissingRequestType:
		return "MissingRequestType"
	case StatusUnknownRequestType:
		return "UnknownRequestType"
	case StatusGenericError:
		return "GenericError"
	case StatusMissingRequestData:
		return "MissingRequestData"
	case StatusMissingRequestParameter:
		return "MissingRequestParameter"
	case StatusInvalidRequestParameterType:
		return "InvalidRequestParameterType"
	case StatusRequestParameterOutOfRange:
		return "RequestParameterOutOfRange"
	case StatusRequestParameterEmpty:
		return "RequestParameterEmpty"
	case StatusResourceNotFound:
		return "ResourceNotFound"
	case StatusResourceAlreadyExists:
		return "ResourceAlreadyExists"
	case StatusInvalidResourceType:
		return "InvalidResourceType"
	case StatusResourceCreationFailed:
		return "ResourceCreationFailed"
	case StatusResourceActionFailed:
		return "ResourceActionFailed"
	case StatusRequestProcessingFailed:
		return "RequestProcessingFailed"
	default:
		return "Unknown"
	}
}
