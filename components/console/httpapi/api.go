package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
	"github.com/goliatone/go-console/components/console/commands"
	"github.com/goliatone/go-console/components/console/queries"
)

// Executor is the transport-facing surface over the console commands and
// queries. Routers hold this instead of the service so transports stay
// decoupled from orchestration.
type Executor interface {
	FetchPage(ctx context.Context, input queries.PageInput) (console.PageSnapshot, error)
	Snapshot(ctx context.Context, collection string) (console.PageSnapshot, error)
	Dispatch(ctx context.Context, input commands.DispatchActionInput) error
	Refresh(ctx context.Context, input commands.RefreshCollectionInput) error
	Filter(ctx context.Context, input commands.UpdateFilterInput) error
}

// CommandExecutor adapts go-command commanders/queriers to the Executor
// surface.
type CommandExecutor struct {
	Pages      gocommand.Querier[queries.PageInput, console.PageSnapshot]
	Snapshots  gocommand.Querier[string, console.PageSnapshot]
	Dispatcher gocommand.Commander[commands.DispatchActionInput]
	Refresher  gocommand.Commander[commands.RefreshCollectionInput]
	Filterer   gocommand.Commander[commands.UpdateFilterInput]
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: operation not configured")

func (e *CommandExecutor) FetchPage(ctx context.Context, input queries.PageInput) (console.PageSnapshot, error) {
	if e.Pages == nil {
		return console.PageSnapshot{}, errNotConfigured
	}
	return e.Pages.Query(ctx, input)
}

func (e *CommandExecutor) Snapshot(ctx context.Context, collection string) (console.PageSnapshot, error) {
	if e.Snapshots == nil {
		return console.PageSnapshot{}, errNotConfigured
	}
	return e.Snapshots.Query(ctx, collection)
}

func (e *CommandExecutor) Dispatch(ctx context.Context, input commands.DispatchActionInput) error {
	if e.Dispatcher == nil {
		return errNotConfigured
	}
	return e.Dispatcher.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshCollectionInput) error {
	if e.Refresher == nil {
		return errNotConfigured
	}
	return e.Refresher.Execute(ctx, input)
}

func (e *CommandExecutor) Filter(ctx context.Context, input commands.UpdateFilterInput) error {
	if e.Filterer == nil {
		return errNotConfigured
	}
	return e.Filterer.Execute(ctx, input)
}

// Handlers exposes plain net/http endpoints backed by the executor, for
// applications that do not mount go-router.
type Handlers struct {
	API Executor
}

func (h *Handlers) HandleListPage(w http.ResponseWriter, r *http.Request, collection string) {
	q := queryFromRequest(r)
	snapshot, err := h.API.FetchPage(r.Context(), queries.PageInput{Collection: collection, Query: q})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request, collection string) {
	snapshot, err := h.API.Snapshot(r.Context(), collection)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	var payload commands.DispatchActionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Dispatch(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshCollectionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func queryFromRequest(r *http.Request) console.Query {
	values := r.URL.Query()
	q := console.Query{
		Filter: console.FilterState{
			Search:      values.Get("search"),
			Status:      values.Get("status"),
			Priority:    values.Get("priority"),
			PaymentMode: values.Get("payment_mode"),
		},
		Sort: values.Get("sort"),
	}
	if page := values.Get("page"); page != "" {
		if n, err := parsePositiveInt(page); err == nil {
			q.Page = n
		}
	}
	if size := values.Get("page_size"); size != "" {
		if n, err := parsePositiveInt(size); err == nil {
			q.PageSize = n
		}
	}
	return q
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the console error taxonomy onto HTTP status codes while
// keeping the backend's message verbatim.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var validation *console.ValidationError
	var server *console.ServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.Is(err, console.ErrActionInFlight):
		status = http.StatusConflict
	case errors.Is(err, console.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.As(err, &server):
		if server.Status > 0 {
			status = server.Status
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
