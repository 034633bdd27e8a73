package rpc

import (
	"encoding/json"

	"tcms/pkg/constants"
)

// Request JSON-RPC 2.0 请求, params 只支持位置参数
type Request struct {
	JSONRPC string          `json:"jsonrpc" example:"2.0"`
	ID      json.RawMessage `json:"id,omitempty" swaggertype:"integer" example:"1"`
	Method  string          `json:"method" example:"Build.get"`
	Params  json.RawMessage `json:"params,omitempty" swaggertype:"array,object"`
}

// Fault JSON-RPC 错误对象
type Fault struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (f *Fault) Error() string {
	return f.Message
}

// Response JSON-RPC 2.0 响应, result 与 error 只会出现一个
type Response struct {
	ID     json.RawMessage `json:"id" swaggertype:"integer"`
	Result interface{}     `json:"result,omitempty"`
	Error  *Fault          `json:"error,omitempty"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	id := r.ID
	if len(id) == 0 {
		id = json.RawMessage("null")
	}

	if r.Error != nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Error   *Fault          `json:"error"`
		}{constants.JSONRPCVersion, id, r.Error})
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  interface{}     `json:"result"`
	}{constants.JSONRPCVersion, id, r.Result})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID     json.RawMessage `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *Fault          `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.ID = wire.ID
	r.Error = wire.Error
	r.Result = wire.Result
	return nil
}

// ErrorResponse 构造错误响应
func ErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{ID: id, Error: &Fault{Code: code, Message: message}}
}
