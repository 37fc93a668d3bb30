package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/render"
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	if g.renderErr != nil {
		return
	}

	// Step 1: raycast the frame into the pixel buffer
	if err := g.RenderFrame(); err != nil {
		g.fail(err)
		return
	}

	// Step 2: upload
	screen.WritePixels(g.Buffer.Bytes())

	// Step 3: frame stats
	g.frame++
	if fps, ok := g.fps.Tick(); ok {
		logger.Log.WithFields(logrus.Fields{
			"fps":   fps,
			"frame": g.frame,
		}).Infof("FPS: %d", fps)
	}
	if g.ShowFPS {
		screen.DebugText(fmt.Sprintf("FPS: %d", g.fps.Last()))
	}

	center, err := g.Engine.Cast(g.Camera, g.World, g.Engine.Width()/2)
	if err != nil {
		g.fail(err)
		return
	}
	g.publish(center)
}
