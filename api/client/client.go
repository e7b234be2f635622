package client

import (
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Client exposes one method per backend operation. Every method is a thin
// mapping from its parameters to a single Gateway call.
type Client struct {
	gw     *Gateway
	logger *zap.Logger
}

func New(gw *Gateway, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gw:     gw,
		logger: logger,
	}
}

// Gateway returns the underlying request gateway.
func (c *Client) Gateway() *Gateway {
	return c.gw
}

// query builds an endpoint with a query string, leaving out the parameters
// build does not set.
func query(endpoint string, build func(args *fasthttp.Args)) string {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	build(args)
	if args.Len() == 0 {
		return endpoint
	}
	return endpoint + "?" + args.String()
}

func setID(args *fasthttp.Args, key string, id int64) {
	if id != 0 {
		args.Set(key, strconv.FormatInt(id, 10))
	}
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
