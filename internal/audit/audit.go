package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stock-service/internal/auth"
	"stock-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const (
	asyncLogTimeout   = 2 * time.Second
	defaultQueryLimit = 100
	maxQueryLimit     = 500

	msgAuditLogFailed = "audit log failed"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeAnonymous ActorType = "anonymous"
	ActorTypeSystem    ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeSession ResourceType = "session"
	ResourceTypeUser    ResourceType = "user"
)

// Action represents the action being performed
type Action string

const (
	ActionLogin      Action = "login"
	ActionAdminLogin Action = "admin_login"
	ActionBootstrap  Action = "bootstrap"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
	StatusLocked  Status = "locked"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID      `json:"id"`
	EventType    string         `json:"event_type"`
	ActorType    ActorType      `json:"actor_type"`
	ActorID      string         `json:"actor_id,omitempty"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       Action         `json:"action"`
	Status       Status         `json:"status"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Logger writes audit events to the audit_events table
type Logger struct {
	pool *pgxpool.Pool
}

func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}

	var metadataJSON []byte
	var err error
	if event.Metadata != nil {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = l.pool.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorType,
		event.ActorID,
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)

	return err
}

// LogFromContext fills request details from c and logs the event asynchronously.
// actorID is the username the request claims to act as; when empty the
// resolved Identity, if any, is used.
func (l *Logger) LogFromContext(c echo.Context, actorID string, resourceType ResourceType, action Action, status Status, metadata map[string]any) {
	event := NewEvent(c, actorID, resourceType, action, status, metadata)
	l.logAsync(c.Request().Context(), event)
}

// NewEvent builds an Event from the request in c.
func NewEvent(c echo.Context, actorID string, resourceType ResourceType, action Action, status Status, metadata map[string]any) *Event {
	event := &Event{
		ActorType:    ActorTypeAnonymous,
		ActorID:      actorID,
		ResourceType: resourceType,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:     metadata,
	}

	if id, ok := auth.GetIdentity(c); ok {
		event.ActorType = ActorTypeUser
		if event.ActorID == "" {
			event.ActorID = id.Subject
		}
	} else if actorID != "" {
		event.ActorType = ActorTypeUser
	}

	return event
}

func (l *Logger) logAsync(reqCtx context.Context, event *Event) {
	log := logger.FromContext(reqCtx)

	ctx, cancel := context.WithTimeout(context.Background(), asyncLogTimeout)
	go func() {
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			log.WithError(err).WithField("event_type", event.EventType).Warn(msgAuditLogFailed)
		}
	}()
}

// QueryFilter narrows Query results
type QueryFilter struct {
	ActorID   string
	Action    Action
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

const selectEvents = `SELECT id, event_type, actor_type, actor_id, resource_type, resource_id,
       action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
FROM audit_events`

// Query retrieves audit events, newest first
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	query, args := buildQuery(filter)

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// buildQuery renders filter as a parameterized SELECT.
func buildQuery(filter QueryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ActorID != "" {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		add("action = $%d", string(filter.Action))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.StartTime != nil {
		add("created_at >= $%d", *filter.StartTime)
	}
	if filter.EndTime != nil {
		add("created_at <= $%d", *filter.EndTime)
	}

	var b strings.Builder
	b.WriteString(selectEvents)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	args = append(args, clampLimit(filter.Limit))
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

func scanEvent(row pgx.Row) (*Event, error) {
	event := &Event{}
	var metadataJSON []byte

	err := row.Scan(
		&event.ID,
		&event.EventType,
		&event.ActorType,
		&event.ActorID,
		&event.ResourceType,
		&event.ResourceID,
		&event.Action,
		&event.Status,
		&event.IPAddress,
		&event.UserAgent,
		&event.RequestID,
		&metadataJSON,
		&event.ErrorMessage,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultQueryLimit
	case limit > maxQueryLimit:
		return maxQueryLimit
	default:
		return limit
	}
}
