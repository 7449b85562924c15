package tables_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/okian/pokerdesk/internal/adapters/tables"
	"github.com/okian/pokerdesk/internal/domain/table"
)

// recorder captures what the fake backend received.
type recorder struct {
	mu      sync.Mutex
	method  string
	path    string
	header  http.Header
	body    []byte
	status  int
	payload string
}

func (rec *recorder) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec.mu.Lock()
	rec.method = r.Method
	rec.path = r.URL.Path
	rec.header = r.Header.Clone()
	rec.body = body
	status, payload := rec.status, rec.payload
	rec.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func newBackend(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(srv.Close)
	return srv
}

const headsUp = `{"id":42,"name":"Heads up","capacity":2,"holeCards":[["As","Kd"],null],"communityCards":[]}`

func TestClientListSummaries(t *testing.T) {
	Convey("Given a tables backend", t, func() {
		rec := &recorder{}
		srv := newBackend(t, rec)
		client := tables.New(tables.WithBaseURL(srv.URL + "/"))
		ctx := context.Background()

		Convey("When it returns well-formed summaries", func() {
			rec.payload = `[{"id":1,"name":"Main"},{"id":2,"name":"Side"}]`
			got, err := client.ListSummaries(ctx)

			Convey("Then they should round-trip unchanged", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []table.Summary{{ID: 1, Name: "Main"}, {ID: 2, Name: "Side"}})
				So(rec.method, ShouldEqual, http.MethodGet)
				So(rec.path, ShouldEqual, "/api/tables")
			})

			Convey("And the request should be tagged", func() {
				_, parseErr := uuid.Parse(rec.header.Get("X-Request-ID"))
				So(parseErr, ShouldBeNil)
				So(rec.header.Get("Accept"), ShouldEqual, "application/json")
			})
		})

		Convey("When an element is missing its name", func() {
			rec.payload = `[{"id":1}]`
			got, err := client.ListSummaries(ctx)

			Convey("Then it should fail with a decode error and no data", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, tables.ErrDecode), ShouldBeTrue)
				var de *table.DecodeError
				So(errors.As(err, &de), ShouldBeTrue)
				So(de.Violations[0].Path, ShouldEqual, "[0].name")
			})
		})

		Convey("When the body is not JSON", func() {
			rec.payload = `<html>oops</html>`
			_, err := client.ListSummaries(ctx)

			Convey("Then it should be a parse error", func() {
				So(errors.Is(err, tables.ErrParse), ShouldBeTrue)
				So(errors.Is(err, tables.ErrDecode), ShouldBeFalse)
			})
		})
	})
}

func TestClientGet(t *testing.T) {
	Convey("Given a tables backend", t, func() {
		rec := &recorder{}
		srv := newBackend(t, rec)
		ctx := context.Background()

		Convey("When a table with an empty seat is fetched", func() {
			rec.payload = headsUp
			got, err := tables.New(tables.WithBaseURL(srv.URL)).Get(ctx, 42)

			Convey("Then the id should be in the path and the absent seat kept", func() {
				So(err, ShouldBeNil)
				So(rec.path, ShouldEqual, "/api/tables/42")
				So(got.ID, ShouldEqual, 42)
				So(got.HoleCards[1].Absent(), ShouldBeTrue)
			})
		})

		Convey("When capacity has the wrong type", func() {
			rec.payload = `{"id":42,"name":"x","capacity":"2","holeCards":[],"communityCards":[]}`
			got, err := tables.New(tables.WithBaseURL(srv.URL)).Get(ctx, 42)

			Convey("Then no partial table should be returned", func() {
				So(errors.Is(err, tables.ErrDecode), ShouldBeTrue)
				So(got, ShouldResemble, table.Table{})
			})
		})

		Convey("When the backend answers 404 with an error body", func() {
			rec.status = http.StatusNotFound
			rec.payload = `{"message":"no such table"}`

			Convey("Then the strict policy should surface the status", func() {
				_, err := tables.New(tables.WithBaseURL(srv.URL)).Get(ctx, 9)
				So(errors.Is(err, tables.ErrStatus), ShouldBeTrue)
				var se *tables.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
				So(se.Body, ShouldContainSubstring, "no such table")
			})

			Convey("And the ignore policy should decode the body instead", func() {
				client := tables.New(tables.WithBaseURL(srv.URL), tables.WithStatusPolicy(tables.StatusIgnore))
				_, err := client.Get(ctx, 9)
				So(errors.Is(err, tables.ErrStatus), ShouldBeFalse)
				So(errors.Is(err, tables.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When the ignore policy meets a 500 with a valid table body", func() {
			rec.status = http.StatusInternalServerError
			rec.payload = headsUp
			got, err := tables.New(tables.WithBaseURL(srv.URL), tables.WithStatusPolicy(tables.StatusIgnore)).Get(ctx, 42)

			Convey("Then the table should be returned", func() {
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Heads up")
			})
		})

		Convey("When the seat check is enabled and seats mismatch capacity", func() {
			rec.payload = `{"id":1,"name":"t","capacity":6,"holeCards":[null,null],"communityCards":[]}`
			_, err := tables.New(tables.WithBaseURL(srv.URL), tables.WithSeatCountCheck(true)).Get(ctx, 1)

			Convey("Then it should be a decode error", func() {
				So(errors.Is(err, tables.ErrDecode), ShouldBeTrue)
			})
		})
	})
}

func TestClientCreate(t *testing.T) {
	Convey("Given a tables backend that echoes a stored table", t, func() {
		rec := &recorder{payload: headsUp}
		srv := newBackend(t, rec)
		client := tables.New(tables.WithBaseURL(srv.URL))

		Convey("When a table is created", func() {
			in := table.CreateInput{Name: "Heads up", Capacity: 2, HoleCards: []table.Hand{{"As", "Kd"}, nil}}
			got, err := client.Create(context.Background(), in)
			require.NoError(t, err)

			Convey("Then it should POST JSON without an id", func() {
				So(rec.method, ShouldEqual, http.MethodPost)
				So(rec.path, ShouldEqual, "/api/tables")
				So(rec.header.Get("Content-Type"), ShouldEqual, "application/json")

				var sent map[string]json.RawMessage
				So(json.Unmarshal(rec.body, &sent), ShouldBeNil)
				_, hasID := sent["id"]
				So(hasID, ShouldBeFalse)
				So(string(sent["holeCards"]), ShouldEqual, `[["As","Kd"],null]`)
			})

			Convey("And the server-assigned id should be returned", func() {
				So(got.ID, ShouldEqual, 42)
			})
		})

		Convey("When the response lacks the id", func() {
			rec.payload = `{"name":"x","capacity":2,"holeCards":[],"communityCards":[]}`
			_, err := client.Create(context.Background(), table.CreateInput{Name: "x", Capacity: 2})

			Convey("Then it should fail closed", func() {
				So(errors.Is(err, tables.ErrDecode), ShouldBeTrue)
			})
		})
	})
}

func TestClientAssist(t *testing.T) {
	Convey("Given an assist service", t, func() {
		rec := &recorder{}
		srv := newBackend(t, rec)
		client := tables.New(tables.WithAssistEndpoint(srv.URL+"/act", "secret-token"))
		ctx := context.Background()

		Convey("When it answers with an arbitrary shape", func() {
			rec.payload = `{"action":"raise","amount":[1,2,{"x":null}]}`
			got, err := client.Assist(ctx, []byte(`{"state":"anything"}`))

			Convey("Then the parsed JSON should be returned as-is", func() {
				So(err, ShouldBeNil)
				m, ok := got.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m["action"], ShouldEqual, "raise")
			})

			Convey("And the payload and credential should be forwarded untouched", func() {
				So(rec.method, ShouldEqual, http.MethodPost)
				So(rec.path, ShouldEqual, "/act")
				So(rec.header.Get("Authorization"), ShouldEqual, "secret-token")
				So(string(rec.body), ShouldEqual, `{"state":"anything"}`)
			})
		})

		Convey("When it answers with a bare scalar", func() {
			rec.payload = `42`
			got, err := client.Assist(ctx, nil)

			Convey("Then it should not be rejected", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, float64(42))
			})
		})

		Convey("When it answers with a non-JSON body", func() {
			rec.payload = `not json`
			_, err := client.Assist(ctx, []byte(`{}`))

			Convey("Then it should fail with a parse error", func() {
				So(errors.Is(err, tables.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When no credential is configured", func() {
			_, err := tables.New().Assist(ctx, []byte(`{}`))

			Convey("Then it should fail before any network call", func() {
				So(errors.Is(err, tables.ErrAssistUnconfigured), ShouldBeTrue)
			})
		})
	})
}

func TestClientNetworkFailures(t *testing.T) {
	Convey("Given an unreachable backend", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		client := tables.New(tables.WithBaseURL(url))

		Convey("When any call is made", func() {
			_, err := client.ListSummaries(context.Background())

			Convey("Then it should be a network error", func() {
				So(errors.Is(err, tables.ErrNetwork), ShouldBeTrue)
			})
		})
	})

	Convey("Given a slow backend", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		Convey("When the client timeout elapses", func() {
			client := tables.New(tables.WithBaseURL(srv.URL), tables.WithTimeout(20*time.Millisecond))
			_, err := client.Get(context.Background(), 1)

			Convey("Then the call should abort as a network error", func() {
				So(errors.Is(err, tables.ErrNetwork), ShouldBeTrue)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When the caller cancels", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := tables.New(tables.WithBaseURL(srv.URL)).Get(ctx, 1)

			Convey("Then the cancellation should propagate", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
