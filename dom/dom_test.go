package dom

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDocument(t *testing.T) {
	Convey("Given an empty document", t, func() {
		doc := New()

		Convey("Append adds nodes and rejects duplicates", func() {
			n, err := doc.Append(3, KindPlaceholder, "abc")
			So(err, ShouldBeNil)
			So(n.Kind, ShouldEqual, KindPlaceholder)
			So(n.Ref, ShouldEqual, "abc")

			_, err = doc.Append(3, KindEmbed, "x")
			So(errors.Is(err, ErrDuplicateIndex), ShouldBeTrue)
			So(doc.Len(), ShouldEqual, 1)
		})

		Convey("Indices are sorted", func() {
			for _, i := range []int{5, 1, 3} {
				_, _ = doc.Append(i, KindPlaceholder, "")
			}
			So(doc.Indices(), ShouldResemble, []int{1, 3, 5})
		})

		Convey("Replace issues a new id and keeps the reference", func() {
			before, _ := doc.Append(0, KindPlaceholder, "ref")
			after, err := doc.Replace(0, KindPlayer)
			So(err, ShouldBeNil)
			So(after.ID, ShouldNotEqual, before.ID)
			So(after.Kind, ShouldEqual, KindPlayer)
			So(after.Ref, ShouldEqual, "ref")
			So(doc.Node(0).MustGet(), ShouldResemble, after)
			So(doc.Count(KindPlayer), ShouldEqual, 1)

			restored, err := doc.Replace(0, KindPlaceholder)
			So(err, ShouldBeNil)
			So(restored.Kind, ShouldEqual, KindPlaceholder)
			So(doc.Count(KindPlayer), ShouldEqual, 0)
		})

		Convey("Replace on a missing index fails", func() {
			_, err := doc.Replace(7, KindPlayer)
			So(errors.Is(err, ErrUnknownIndex), ShouldBeTrue)
		})

		Convey("Clear drops every node", func() {
			_, _ = doc.Append(0, KindPlaceholder, "")
			doc.Clear()
			So(doc.Len(), ShouldEqual, 0)
			So(doc.Has(0), ShouldBeFalse)
			So(doc.Node(0).IsAbsent(), ShouldBeTrue)
		})

		Convey("Kinds carry their markers", func() {
			So(KindPlaceholder.Marker(), ShouldEqual, "reel-placeholder")
			So(KindPlayer.String(), ShouldEqual, "reel-player")
			So(KindEmbed.Marker(), ShouldEqual, "reel-embed")
		})
	})
}
