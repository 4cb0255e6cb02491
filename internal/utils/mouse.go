package utils

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	XConn *xgb.Conn
	XRoot xproto.Window
)

func InitX11() error {
	var err error
	XConn, err = xgb.NewConn()
	if err != nil {
		return err
	}

	setup := xproto.Setup(XConn)
	XRoot = setup.DefaultScreen(XConn).Root
	return nil
}

func GetGlobalMousePosition() (int, int, error) {
	if XConn == nil {
		if err := InitX11(); err != nil {
			return 0, 0, err
		}
	}

	reply, err := xproto.QueryPointer(XConn, XRoot).Reply()
	if err != nil {
		return 0, 0, err
	}

	return int(reply.RootX), int(reply.RootY), nil
}

// PointerTracker turns successive root pointer positions into look deltas.
type PointerTracker struct {
	lastX, lastY int
	primed       bool
}

// Delta returns the pointer movement since the previous call.
func (p *PointerTracker) Delta() (float32, float32, error) {
	x, y, err := GetGlobalMousePosition()
	if err != nil {
		return 0, 0, err
	}
	dx, dy := p.Step(x, y)
	return dx, dy, nil
}

// Step records a position and returns the movement from the last one.
func (p *PointerTracker) Step(x, y int) (float32, float32) {
	if !p.primed {
		p.lastX, p.lastY, p.primed = x, y, true
		return 0, 0
	}
	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	return dx, dy
}

func CloseX11() {
	if XConn != nil {
		XConn.Close()
		XConn = nil
	}
}
