package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marquee-cli/marquee/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGet(t *testing.T) {
	Convey("Given a server that echoes the user agent", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Agent", r.UserAgent())
			w.WriteHeader(http.StatusNoContent)
		}))
		Reset(server.Close)

		Convey("Then requests carry the application user agent", func() {
			resp, err := Get(context.Background(), server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			So(resp.Header.Get("X-Agent"), ShouldEqual, constant.UserAgent)
		})
	})
}
