package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				l := Get()
				So(l, ShouldNotBeNil)
				So(func() { l.Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
				So(Sync(), ShouldBeNil)
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithOutput(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging a record with fields", func() {
			Get().Named("match").Info(context.Background(), "evaluated",
				Int("score", 42),
				Bool("isMatch", true),
				Error(errors.New("boom")),
			)

			Convey("Then the output is a single JSON object with grouped fields", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "evaluated")
				group, ok := rec["match"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["score"], ShouldEqual, float64(42))
				So(group["isMatch"], ShouldEqual, true)
				So(group["source"], ShouldNotBeEmpty)
			})
		})

		Convey("When logging below the configured level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Debug(context.Background(), "hidden")
			Get().Info(context.Background(), "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When attaching fields with With", func() {
			Get().With(String("request", "r-1")).Warn(context.Background(), "slow")

			Convey("Then every record carries them", func() {
				So(strings.Contains(buf.String(), `"request":"r-1"`), ShouldBeTrue)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("DEBUG"), ShouldBeNil)
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("error"), ShouldBeNil)

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
		_ = SetLevelString("info")
	})
}
