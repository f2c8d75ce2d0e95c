package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorKind(t *testing.T) {
	Convey("Given failed response statuses", t, func() {
		Convey("Then each should get its own kind", func() {
			So(errorKind(http.StatusBadRequest), ShouldEqual, "bad_request")
			So(errorKind(http.StatusRequestEntityTooLarge), ShouldEqual, "too_large")
			So(errorKind(http.StatusMethodNotAllowed), ShouldEqual, "method_not_allowed")
			So(errorKind(http.StatusServiceUnavailable), ShouldEqual, "unavailable")
			So(errorKind(http.StatusGatewayTimeout), ShouldEqual, "timeout")
			So(errorKind(http.StatusBadGateway), ShouldEqual, "server_error")
			So(errorKind(http.StatusConflict), ShouldEqual, "client_error")
		})

		Convey("Then only unrecoverable server errors should be high severity", func() {
			So(errorSeverity(http.StatusInternalServerError), ShouldEqual, "high")
			So(errorSeverity(http.StatusServiceUnavailable), ShouldEqual, "medium")
			So(errorSeverity(http.StatusBadRequest), ShouldEqual, "low")
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler that echoes the request id", t, func() {
		h := RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(RequestID(r.Context())))
		})

		Convey("When the caller sends an oversized id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLen+1))
			w := httptest.NewRecorder()
			h(w, req)

			Convey("Then a fresh id should replace it", func() {
				id := w.Header().Get(RequestIDHeader)
				So(len(id), ShouldEqual, 36)
				So(w.Body.String(), ShouldEqual, id)
			})
		})
	})
}
