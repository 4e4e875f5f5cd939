package amr

import (
	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestLogMode(c *C) {
	saved := mode
	defer SetLogMode(saved)

	SetLogMode(DebugMode)
	c.Assert(Verbose(), Equals, true)
	for _, m := range []LogMode{InfoMode, WarningMode, ErrorMode, SilentMode} {
		SetLogMode(m)
		c.Assert(Verbose(), Equals, false, Commentf("mode %d", m))
	}
}
