package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	console "github.com/goliatone/go-console/components/console"
	"github.com/goliatone/go-console/components/console/commands"
	"github.com/goliatone/go-console/components/console/httpapi"
	"github.com/goliatone/go-console/components/console/queries"
)

// ActorResolver converts a router.Context into the console's activity
// context so dispatches carry the acting admin.
type ActorResolver func(router.Context) console.ActivityContext

// Config wires go-router with console controllers, APIs, and the broadcast
// registry.
type Config[T any] struct {
	Router        router.Router[T]
	Controller    *console.Controller
	API           httpapi.Executor
	Broadcast     *console.Broadcast
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	Index     string
	List      string
	Page      string
	Snapshot  string
	Dispatch  string
	Refresh   string
	Filter    string
	WebSocket string
	SSE       string
}

// Register mounts console routes (HTML, JSON, REST, WebSocket, SSE) on a
// go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ActorResolver
	if resolver == nil {
		resolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)

	if cfg.Controller != nil {
		group.Get(routes.Index, router.WrapHandler(func(ctx router.Context) error {
			html, err := cfg.Controller.RenderIndex(ctx.Context())
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send([]byte(html))
		}))

		group.Get(routes.List, router.WrapHandler(func(ctx router.Context) error {
			code := ctx.Param("code")
			reqCtx := console.ContextWithActivity(ctx.Context(), resolver(ctx))
			html, err := cfg.Controller.RenderList(reqCtx, code, queryFromContext(ctx))
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			var buf bytes.Buffer
			buf.WriteString(html)
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(buf.Bytes())
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
		group.Get(routes.SSE, router.WrapHandler(func(ctx router.Context) error {
			topic := ctx.Query("topic")
			return streamSSE(ctx, cfg.Broadcast, topic)
		}))
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ActorResolver, routes RouteConfig) {
	r.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		code := ctx.Param("code")
		input := queries.PageInput{Collection: code, Query: queryFromContext(ctx)}
		snapshot, err := api.FetchPage(ctx.Context(), input)
		if err != nil {
			return respondConsoleError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	r.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
		snapshot, err := api.Snapshot(ctx.Context(), ctx.Param("code"))
		if err != nil {
			return respondConsoleError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	r.Post(routes.Dispatch, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.DispatchActionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Collection = ctx.Param("code")
		actor := resolver(ctx)
		if payload.ActorID == "" {
			payload.ActorID = actor.ActorID
		}
		reqCtx := console.ContextWithActivity(ctx.Context(), actor)
		if err := api.Dispatch(reqCtx, payload); err != nil {
			return respondConsoleError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshCollectionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondConsoleError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateFilterInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Collection = ctx.Param("code")
		if err := api.Filter(ctx.Context(), payload); err != nil {
			return respondConsoleError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))
}

func registerWebSocket[T any](r router.Router[T], broadcast *console.Broadcast, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := broadcast.Subscribe(ws.Query("topic"))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func streamSSE(ctx router.Context, broadcast *console.Broadcast, topic string) error {
	events, cancel := broadcast.Subscribe(topic)
	defer cancel()
	ctx.SetHeader("Content-Type", "text/event-stream")
	ctx.SetHeader("Cache-Control", "no-cache")
	ctx.SetHeader("Connection", "keep-alive")
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			body, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if err := ctx.Send(append(append([]byte("data: "), body...), '\n', '\n')); err != nil {
				return err
			}
		case <-ctx.Context().Done():
			return nil
		}
	}
}

func queryFromContext(ctx router.Context) console.Query {
	q := console.Query{
		Filter: console.FilterState{
			Search:      ctx.Query("search"),
			Status:      ctx.Query("status"),
			Priority:    ctx.Query("priority"),
			PaymentMode: ctx.Query("payment_mode"),
		},
		Sort: ctx.Query("sort"),
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(ctx.Query("page_size")); err == nil && size > 0 {
		q.PageSize = size
	}
	return q
}

func defaultActorResolver(ctx router.Context) console.ActivityContext {
	var meta console.ActivityContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		meta.ActorID = v
		meta.UserID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		meta.TenantID = v
	}
	return meta
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Index == "" {
		routes.Index = "/console"
	}
	if routes.List == "" {
		routes.List = "/console/:code"
	}
	if routes.Page == "" {
		routes.Page = "/api/console/:code"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/api/console/:code/snapshot"
	}
	if routes.Dispatch == "" {
		routes.Dispatch = "/api/console/:code/actions"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/api/console/refresh"
	}
	if routes.Filter == "" {
		routes.Filter = "/api/console/:code/filter"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/console/ws"
	}
	if routes.SSE == "" {
		routes.SSE = "/console/events"
	}
	return routes
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

// respondConsoleError maps the console error taxonomy onto HTTP statuses
// while keeping backend messages verbatim.
func respondConsoleError(ctx router.Context, err error) error {
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
	return respondError(ctx, status, err)
}
