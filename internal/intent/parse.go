package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Intent display names configured in the conversational agent.
const (
	IntentNewOrder         = "new.order"
	IntentAddItems         = "order.add.items - context:ongoing order"
	IntentRemoveItems      = "order.remove - context: ongoing-order"
	IntentCompleteOrder    = "order.complete - context: ongoing-order"
	IntentTrackOrder       = "track.order"
	IntentTrackOrderFollow = "track.order - context: ongoing-tracking"
)

// ErrBadParameter marks a parameter that could not be converted to its
// expected type.
var ErrBadParameter = errors.New("bad parameter")

// Request is the subset of a Dialogflow ES fulfillment request the webhook reads.
type Request struct {
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent and its parameters.
type QueryResult struct {
	QueryText      string          `json:"queryText,omitempty"`
	Intent         IntentInfo      `json:"intent"`
	Parameters     map[string]any  `json:"parameters"`
	OutputContexts []OutputContext `json:"outputContexts,omitempty"`
}

// IntentInfo identifies the matched intent.
type IntentInfo struct {
	DisplayName string `json:"displayName"`
}

// OutputContext is an active conversation context.
type OutputContext struct {
	Name string `json:"name"`
}

// Response is the fulfillment reply.
type Response struct {
	FulfillmentText string `json:"fulfillmentText"`
}

// SessionID resolves the conversation session of r: the first output
// context if any, else the top-level session path, else "".
func (r *Request) SessionID() string {
	if len(r.QueryResult.OutputContexts) > 0 {
		return ExtractSessionID(r.QueryResult.OutputContexts[0].Name)
	}
	if r.Session != "" {
		return ExtractSessionID(r.Session)
	}
	return ""
}

// Parse maps the request's intent name and parameters to a typed Event.
// Unrecognized intent names yield Unknown, not an error. An error wrapping
// ErrBadParameter means the parameters did not fit the event's types.
func Parse(r *Request) (Event, error) {
	params := r.QueryResult.Parameters
	name := r.QueryResult.Intent.DisplayName

	switch name {
	case IntentNewOrder:
		return StartOrder{}, nil
	case IntentAddItems:
		quantities, err := intList(params["number"])
		if err != nil {
			return AddItems{}, fmt.Errorf("number: %w", err)
		}
		return AddItems{Items: stringList(params["food"]), Quantities: quantities}, nil
	case IntentRemoveItems:
		return RemoveItems{Items: stringList(params["food"])}, nil
	case IntentCompleteOrder:
		return CompleteOrder{}, nil
	case IntentTrackOrder, IntentTrackOrderFollow:
		return TrackOrder{OrderRef: orderRef(params)}, nil
	default:
		return Unknown{Name: name}, nil
	}
}

// orderRef picks the order reference from "order_id", falling back to the
// first element of "number" when order_id is missing or blank.
func orderRef(params map[string]any) string {
	if ref := scalarString(params["order_id"]); ref != "" {
		return ref
	}
	switch v := params["number"].(type) {
	case []any:
		if len(v) > 0 {
			return scalarString(v[0])
		}
		return ""
	default:
		return scalarString(v)
	}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// stringList accepts a list of strings or a single string.
func stringList(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return []string{strings.TrimSpace(x)}
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, strings.TrimSpace(s))
			} else {
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	default:
		return []string{fmt.Sprint(x)}
	}
}

// intList accepts a list of numbers (or numeric strings) or a single one.
func intList(v any) ([]int, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]int, 0, len(x))
		for _, e := range x {
			n, err := toInt(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		n, err := toInt(x)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	default:
		n, err := toInt(x)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	}
}

func toInt(v any) (int, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadParameter, x.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadParameter, x)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %v", ErrBadParameter, v)
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %v is not a whole number", ErrBadParameter, f)
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v out of range", ErrBadParameter, f)
	}
	return int(f), nil
}
