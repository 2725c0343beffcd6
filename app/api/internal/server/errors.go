package server

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/errors"
)

type errorReply struct {
	Detail string `json:"detail"`
}

// errorEncoder 以 {"detail": "..."} 输出错误；500 只返回通用信息，不暴露内部原因
func errorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	code := int(se.Code)
	if code < 100 || code > 599 {
		code = nethttp.StatusInternalServerError
	}

	detail := se.Message
	if code == nethttp.StatusInternalServerError {
		detail = nethttp.StatusText(code)
	}

	body, merr := encoding.GetCodec(json.Name).Marshal(&errorReply{Detail: detail})
	if merr != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
