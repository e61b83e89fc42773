// internal/lifecycle/query.go
package lifecycle

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"debatecore/internal/gateway"
	"debatecore/internal/models"
)

// UnreachableMessage is shown whenever a query fails in transport,
// whatever the underlying cause.
const UnreachableMessage = "The backend is not responding. Please check that the server is running."

// backendFallbackMessage is used when the backend reports an error
// without any text.
const backendFallbackMessage = "The backend could not answer this query."

// QuerySubmitter is the subset of the gateway a query needs
type QuerySubmitter interface {
	SubmitQuery(ctx context.Context, text string) (models.QueryResult, error)
}

// QueryState is the observable state of the query lifecycle
type QueryState = OperationState[models.QueryResult]

// QueryController runs one debate query at a time.
// Idle -> InFlight -> Succeeded | Failed -> InFlight -> ...
type QueryController struct {
	gw QuerySubmitter
	op *operation[models.QueryResult]
}

// NewQueryController builds a controller. onChange, when set, sees
// every state transition in order and is never called under a lock.
func NewQueryController(gw QuerySubmitter, onChange func(QueryState), opts ...Option) *QueryController {
	s := buildSettings(opts)
	return &QueryController{
		gw: gw,
		op: newOperation("query", s, onChange),
	}
}

// Submit starts a query for the trimmed text. Whitespace-only input
// returns a ValidationError and a submit while another query is
// outstanding returns ErrInFlight; neither sends anything.
func (c *QueryController) Submit(text string) error {
	query := strings.TrimSpace(text)
	if query == "" {
		return &ValidationError{Field: "query", Reason: "empty"}
	}

	err := c.op.begin(
		func(ctx context.Context) (models.QueryResult, error) {
			return c.gw.SubmitQuery(ctx, query)
		},
		c.settle,
		nil,
	)
	if err == nil {
		c.op.logger.Info("query submitted", zap.Int("length", len(query)))
	}
	return err
}

func (c *QueryController) settle(result models.QueryResult, err error) QueryState {
	if err == nil {
		c.op.logger.Info("query succeeded",
			zap.Int("rounds", len(result.Rounds)),
			zap.Int("sources", len(result.Sources)))
		return QueryState{Phase: Succeeded, Payload: result}
	}

	var be *gateway.BackendError
	if errors.As(err, &be) {
		msg := strings.TrimSpace(be.Message)
		if msg == "" {
			msg = backendFallbackMessage
		}
		c.op.logger.Warn("query rejected by backend", zap.String("message", be.Message))
		return QueryState{Phase: Failed, Message: msg, Err: err}
	}

	c.op.logger.Warn("query failed", zap.Error(err))
	return QueryState{Phase: Failed, Message: UnreachableMessage, Err: err}
}

// State returns the current state
func (c *QueryController) State() QueryState {
	return c.op.current()
}

// Wait blocks until no query is outstanding
func (c *QueryController) Wait() {
	c.op.wait()
}

// Close detaches the controller. An outstanding query still runs to
// completion but its result is discarded and no further callbacks fire.
func (c *QueryController) Close() {
	c.op.close()
}
