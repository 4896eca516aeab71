package core

import "github.com/pkg/errors"

const genericFailureMsg = "an unexpected error occurred"

// Result is the tagged outcome returned to callers: they check Success and render Error verbatim.
type Result struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Kind    ErrorKind           `json:"kind,omitempty"`
	Limit   *LimitExceededError `json:"limit,omitempty"`
	Fields  map[string]string   `json:"fields,omitempty"`
}

func Succeed(data interface{}) Result {
	return Result{Success: true, Data: data}
}

// Fail normalizes err into a failed Result. Infrastructure failures keep the underlying
// message when there is one.
func Fail(err error) Result {
	res := Result{Kind: KindOf(err)}
	if err == nil {
		res.Error = genericFailureMsg
		return res
	}

	switch origErr := errors.Cause(err).(type) {
	case *LimitExceededError:
		res.Limit = origErr
		res.Error = origErr.Error()
	case *ValidationError:
		res.Error = origErr.Error()
		if len(origErr.Fields) > 0 {
			res.Fields = make(map[string]string, len(origErr.Fields))
			for _, f := range origErr.Fields {
				res.Fields[f.Field] = f.Error
			}
		}
	default:
		res.Error = origErr.Error()
	}
	if res.Error == "" {
		res.Error = genericFailureMsg
	}
	return res
}

// ResultOf is a shorthand for Succeed / Fail depending on err.
func ResultOf(data interface{}, err error) Result {
	if err != nil {
		return Fail(err)
	}
	return Succeed(data)
}
