package diagnostics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/atlanticdynamic/scriptsvc/internal/errz"
	"github.com/atlanticdynamic/scriptsvc/internal/result"
	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
)

type handlers struct {
	name   string
	source Source
}

type statusResponse struct {
	Service    string      `json:"service,omitempty"`
	State      string      `json:"state"`
	ExitCode   uint32      `json:"exit_code"`
	Checkpoint uint32      `json:"checkpoint"`
	WaitHintMS int64       `json:"wait_hint_ms"`
	Accepts    string      `json:"accepts,omitempty"`
	LastRun    *runSummary `json:"last_run,omitempty"`
}

type runSummary struct {
	ID         string `json:"id,omitempty"`
	Script     string `json:"script,omitempty"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	ExitCode   uint32 `json:"exit_code"`
	Started    string `json:"started,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Items      int    `json:"items"`
}

type resultsResponse struct {
	Run   runSummary `json:"run"`
	Items []itemJSON `json:"items"`
}

type itemJSON struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func summarize(run *controller.RunReport) *runSummary {
	if run == nil {
		return nil
	}
	s := &runSummary{
		Script:     run.Script,
		Outcome:    run.Outcome.String(),
		ExitCode:   run.ExitCode,
		DurationMS: run.Duration.Milliseconds(),
		Items:      run.Results.Len(),
	}
	if !run.ID.IsNil() {
		s.ID = run.ID.String()
	}
	if run.Err != nil {
		s.Error = run.Err.Error()
	}
	if !run.Started.IsZero() {
		s.Started = run.Started.UTC().Format(timeFormat)
	}
	return s
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	st := h.source.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		Service:    h.name,
		State:      st.State,
		ExitCode:   st.ExitCode,
		Checkpoint: st.Checkpoint,
		WaitHintMS: st.WaitHint.Milliseconds(),
		Accepts:    st.Accepts.String(),
		LastRun:    summarize(h.source.LastRun()),
	})
}

// lastResults returns the last run and its result set, writing an error response when there
// are none.
func (h *handlers) lastResults(w http.ResponseWriter) (*controller.RunReport, *result.Set, bool) {
	run := h.source.LastRun()
	if run == nil {
		writeError(w, http.StatusNotFound, errors.New("no run has finished"))
		return nil, nil, false
	}
	if run.Results == nil {
		writeError(w, http.StatusNotFound, errz.ErrResultsUnavailable)
		return nil, nil, false
	}
	return run, run.Results, true
}

func (h *handlers) results(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	run, rs, ok := h.lastResults(w)
	if !ok {
		return
	}
	items := make([]itemJSON, 0, rs.Len())
	for i := range rs.Len() {
		it, _ := rs.Item(i)
		items = append(items, itemJSON{Kind: it.Kind().String(), Value: it.Value()})
	}
	writeJSON(w, http.StatusOK, resultsResponse{Run: *summarize(run), Items: items})
}

// resultItem serves /results/{item} and /results/{item}/{field}. The optional "as" query
// parameter selects a typed read ("string" or "int") and fails on a kind mismatch.
func (h *handlers) resultItem(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/results/"), "/"), "/")
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, errors.New("expected /results/{item}[/{field}]"))
		return
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("item must be an integer ordinal"))
		return
	}

	_, rs, ok := h.lastResults(w)
	if !ok {
		return
	}

	as := r.URL.Query().Get("as")
	var value any
	if len(parts) == 1 {
		value, err = readItem(rs, idx, as)
	} else {
		value, err = readField(rs, idx, parts[1], as)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func readItem(rs *result.Set, idx int, as string) (any, error) {
	switch as {
	case "string":
		return rs.StringAt(idx)
	case "int":
		return rs.IntAt(idx)
	case "":
		it, err := rs.Item(idx)
		if err != nil {
			return nil, err
		}
		return itemJSON{Kind: it.Kind().String(), Value: it.Value()}, nil
	default:
		return nil, errBadAs
	}
}

func readField(rs *result.Set, idx int, field, as string) (any, error) {
	switch as {
	case "string":
		return rs.FieldString(idx, field)
	case "int":
		return rs.FieldInt(idx, field)
	case "":
		it, err := rs.Item(idx)
		if err != nil {
			return nil, err
		}
		f, err := it.Field(field)
		if err != nil {
			return nil, err
		}
		return itemJSON{Kind: f.Kind().String(), Value: f.Value()}, nil
	default:
		return nil, errBadAs
	}
}

var errBadAs = errors.New(`"as" must be "string" or "int"`)

func statusFor(err error) int {
	switch {
	case errors.Is(err, errz.ErrIndexOutOfRange), errors.Is(err, errz.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, errz.ErrTypeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadAs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) trace(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	run := h.source.LastRun()
	if run == nil {
		writeError(w, http.StatusNotFound, errors.New("no run has finished"))
		return
	}
	writeJSON(w, http.StatusOK, convertRecords(run.Trace))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
