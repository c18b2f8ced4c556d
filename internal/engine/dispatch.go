package engine

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/api/types"
	"github.com/masa-finance/birdnet/pkg/client"
)

// Engine dispatches logical operations through the transport and funnels
// every exchange into exactly one terminal Outcome. The identity contexts
// are read-only for the process lifetime; each exchange owns its parameter
// set exclusively.
type Engine struct {
	transport client.Transport
	primary   client.Identity
	alternate client.Identity
}

// exchange is one in-flight network call. Created at dispatch time, read by
// its completion path, then discarded. The fallback flag bounds the
// alternate-identity retry to a single hop.
type exchange struct {
	id       string
	op       *Operation
	args     types.Args
	identity client.Identity
	fallback bool
}

func New(transport client.Transport, primary, alternate client.Identity) *Engine {
	return &Engine{
		transport: transport,
		primary:   primary,
		alternate: alternate,
	}
}

// HasAlternateIdentity reports whether a second credential context is
// configured for blocked-content fallback.
func (e *Engine) HasAlternateIdentity() bool {
	return e.alternate.Configured()
}

// Dispatch starts one exchange for the named operation and returns a
// channel carrying its single terminal Outcome. The channel is buffered;
// the caller may receive at leisure.
func (e *Engine) Dispatch(name string, args types.Args) <-chan types.Outcome {
	return e.DispatchAs(name, args, false)
}

// DispatchAs is Dispatch with an explicit identity-selection flag: alternate
// marks the exchange as an alternate-identity attempt, which both signs it
// with the alternate credentials and disarms any further fallback.
func (e *Engine) DispatchAs(name string, args types.Args, alternate bool) <-chan types.Outcome {
	out := make(chan types.Outcome, 1)
	op := Lookup(name)
	if op == nil {
		out <- types.Outcome{Error: fmt.Sprintf("unknown operation %q", name)}
		return out
	}
	e.dispatch(op, args, alternate, out)
	return out
}

func (e *Engine) dispatch(op *Operation, args types.Args, fallback bool, out chan<- types.Outcome) {
	// Empty search queries never reach the network.
	if op.QueryParam != "" && args[op.QueryParam] == "" {
		logrus.Debugf("%s: empty query, returning empty result", op.Name)
		out <- types.Outcome{List: []interface{}{}}
		return
	}

	ex := &exchange{
		id:       uuid.New().String(),
		op:       op,
		args:     cloneArgs(args),
		identity: e.primary,
		fallback: fallback,
	}
	if fallback {
		ex.identity = e.alternate
	}

	logrus.Debugf("dispatching %s (%s) as %s, fallback=%v", op.Name, ex.id, ex.identity.Name, fallback)
	go e.run(ex, out)
}

// run performs the exchange and delivers its terminal outcome. Exactly one
// Outcome is sent per dispatched call, also across fallback retries.
func (e *Engine) run(ex *exchange, out chan<- types.Outcome) {
	values := buildParams(ex.op, ex.args)
	target := resolveEndpoint(ex.op, values)

	var resp *client.Response
	var err error
	if ex.op.Method == http.MethodGet {
		resp, err = e.transport.Get(target, values, ex.identity)
	} else {
		resp, err = e.transport.Post(target, values, ex.identity)
	}

	if err != nil {
		logrus.Warnf("%s (%s) transport failure: %v", ex.op.Name, ex.id, err)
		e.fail(ex, ErrorReport{TransportError: err.Error(), Message: err.Error()}, out)
		return
	}
	if !resp.OK() {
		report := parseErrorReport(resp.Status, resp.Body)
		logrus.Warnf("%s (%s) remote failure: %s (code %q)", ex.op.Name, ex.id, report.Message, report.Code)
		e.fail(ex, report, out)
		return
	}

	out <- normalize(ex, resp.Body)
}

// fail applies the three-way classification for a failed exchange: retry
// under the alternate identity, degrade to a placeholder, or surface the
// error. A fallback exchange's own failure never re-triggers the retry.
func (e *Engine) fail(ex *exchange, report ErrorReport, out chan<- types.Outcome) {
	if report.Blocked() && ex.op.AllowFallback && e.alternate.Configured() && !ex.fallback {
		logrus.Infof("%s (%s): blocked by content owner, retrying under alternate identity", ex.op.Name, ex.id)
		e.dispatch(ex.op, ex.args, true, out)
		return
	}

	key := correlationKey(ex)
	if ex.op.Placeholder {
		out <- types.Outcome{
			Object: placeholderStatus(key, report.Message),
			Key:    key,
		}
		return
	}

	out <- types.Outcome{Error: report.Message, Key: key}
}

func correlationKey(ex *exchange) string {
	if ex.op.KeyParam == "" {
		return ""
	}
	return ex.args[ex.op.KeyParam]
}
