package util

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "entry", "entries"), ShouldEqual, "1 entry")
		So(Quantify(2, "entry", "entries"), ShouldEqual, "2 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history"), ShouldEqual, "History")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(5.0, 0, 10), ShouldEqual, 5.0)
		So(Clamp(-3.0, 0, 10), ShouldEqual, 0.0)
		So(Clamp(12.0, 0, 10), ShouldEqual, 10.0)

		Convey("Lower bound wins on an empty interval", func() {
			So(Clamp(4.0, 0, -1), ShouldEqual, 0.0)
		})
	})
}

func TestFormatTimestamp(t *testing.T) {
	Convey("FormatTimestamp", t, func() {
		So(FormatTimestamp(0), ShouldEqual, "0:00")
		So(FormatTimestamp(125), ShouldEqual, "2:05")
		So(FormatTimestamp(3725.9), ShouldEqual, "1:02:05")
		So(FormatTimestamp(-4), ShouldEqual, "0:00")
		So(FormatTimestamp(math.NaN()), ShouldEqual, "0:00")
	})
}
