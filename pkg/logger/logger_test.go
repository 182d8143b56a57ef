package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given logger initialization", t, func() {
		Convey("When the format is unknown", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})

		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf), WithFormat("json")), ShouldBeNil)
		ctx := context.Background()

		Convey("When a named logger writes fields", func() {
			Named("pipeline").Named("run").Info(ctx, "run published", String("run_id", "r1"), Int("bets", 4))

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)

			Convey("Then the fields, name and source are present", func() {
				So(line["msg"], ShouldEqual, "run published")
				So(line["logger"], ShouldEqual, "pipeline.run")
				So(line["run_id"], ShouldEqual, "r1")
				So(line["bets"], ShouldEqual, float64(4))
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "hidden too")
			So(buf.Len(), ShouldEqual, 0)
			Get().Error(ctx, "shown")
			So(strings.Contains(buf.String(), "shown"), ShouldBeTrue)
		})

		Convey("When the level string is unknown", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
