package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Pointer returns the pointer position in root coordinates and the
// key/button mask.
func (c *Connection) Pointer() (x, y int, mask uint16, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), reply.Mask, nil
}

// ButtonHeld reports whether a pointer mask has a drag button pressed.
func ButtonHeld(mask uint16) bool {
	const buttons = xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2 | xproto.KeyButMaskButton3
	return mask&buttons != 0
}
