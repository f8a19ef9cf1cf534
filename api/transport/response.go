package transport

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON body the API writes. Meta carries list counts on
// success and the partial result, if any, on error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: StatusSuccess,
		Data:   data,
		Meta:   meta,
	}
}

// NewList wraps a collection. A nil slice is written as [] so clients always see data.
func NewList[T any](items []T) Envelope {
	if items == nil {
		items = []T{}
	}
	return NewSuccess(items, ListMeta{Count: len(items)})
}

func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{
		Status: StatusError,
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}
