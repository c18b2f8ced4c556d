package engine

import (
	"net/url"
	"strings"

	"github.com/masa-finance/birdnet/api/types"
)

// buildParams constructs the outbound parameter set for one exchange:
// operation defaults first, then caller arguments. Empty argument values
// mean "not provided" and are dropped. The returned set is owned by the
// exchange that requested it.
func buildParams(op *Operation, args types.Args) url.Values {
	values := url.Values{}
	for key, value := range op.Defaults {
		values.Set(key, value)
	}
	for key, value := range args {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	return values
}

// resolveEndpoint fills the positional identifier placeholder, if the
// operation's endpoint has one, from the correlation-key parameter. The
// parameter moves into the path and leaves the query set.
func resolveEndpoint(op *Operation, values url.Values) string {
	if !strings.Contains(op.Endpoint, "{id}") {
		return op.Endpoint
	}
	id := values.Get(op.KeyParam)
	values.Del(op.KeyParam)
	return strings.Replace(op.Endpoint, "{id}", url.PathEscape(id), 1)
}

func cloneArgs(args types.Args) types.Args {
	cloned := make(types.Args, len(args))
	for key, value := range args {
		cloned[key] = value
	}
	return cloned
}
