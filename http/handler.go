package http

type Handler interface {
	ServeHTTP(req *Request, res *Response)
}

type HandlerFunc func(req *Request, res *Response)

func (f HandlerFunc) ServeHTTP(req *Request, res *Response) {
	f(req, res)
}
