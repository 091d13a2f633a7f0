package open

import (
	"testing"

	"github.com/reelfeed/reelfeed/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each platform has its own handler", t, func() {
		cmd, ok := command(constant.Linux, "https://example.com")
		So(ok, ShouldBeTrue)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "https://example.com"})

		cmd, ok = command(constant.Darwin, "https://example.com")
		So(ok, ShouldBeTrue)
		So(cmd.Args[0], ShouldEqual, "open")

		cmd, ok = command(constant.Windows, "https://example.com/?a=1&b=2")
		So(ok, ShouldBeTrue)
		So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://example.com/?a=1^&b=2")

		_, ok = command("plan9", "https://example.com")
		So(ok, ShouldBeFalse)
	})
}
