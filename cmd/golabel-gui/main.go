package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/frame"
	"github.com/philipparndt/golabel/internal/labeling"
	"github.com/philipparndt/golabel/internal/logging"
	"github.com/philipparndt/golabel/internal/meshworker"
	"github.com/philipparndt/golabel/internal/project"
	"github.com/philipparndt/golabel/internal/surface"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/heightmap"
	"github.com/philipparndt/golabel/pkg/infer"
	"github.com/philipparndt/golabel/pkg/mesh"
	"github.com/philipparndt/golabel/pkg/viewer"
)

const (
	surfaceSize = 100
	heightScale = 10
)

type App struct {
	window fyne.Window
	view   *viewer.SurfaceView
	cfg    config.Config
	info   *LabelInfo

	// owned by the loop goroutine once it runs
	loop      *frame.Loop
	meshes    *meshworker.Worker
	session   *labeling.Session
	project   *project.File
	mesh      *mesh.Mesh
	camera    *viewer.Camera
	raycaster viewer.MeshRaycaster
	overlay   *image.RGBA
	dirty     bool

	cancel context.CancelFunc
	done   chan struct{}
}

type LabelInfo struct {
	fileLabel    *widget.Label
	surfaceLabel *widget.Label
	stateLabel   *widget.Label
	countLabel   *widget.Label
	modeSelect   *widget.RadioGroup
}

func main() {
	logging.SetLogger(logging.NewText(os.Stderr, slog.LevelInfo))

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("GoLabel - Height Map Labeling")

	appInstance := &App{
		window: w,
		cfg:    cfg,
	}
	w.SetOnClosed(appInstance.shutdown)

	// Check if file was provided as argument
	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to GoLabel")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Click 'Open Height Map' to start labeling")

	openButton := widget.NewButton("Open Height Map", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	grid, err := heightmap.Load(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load height map: %w", err), a.window)
		return
	}
	proj, err := project.Open(project.PathFor(filename), filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to open label file: %w", err), a.window)
		return
	}

	a.shutdown()
	a.project = proj
	a.setupMainUI(filename)
	a.startSession(grid)
}

// startSession wires a fresh session to the view. It runs before the loop
// goroutine starts, which then owns all session state.
func (a *App) startSession(grid *heightmap.Grid) {
	a.loop = frame.New()
	a.meshes = meshworker.New(a.loop)
	a.mesh = nil
	a.camera = nil
	a.overlay = nil
	a.raycaster = viewer.MeshRaycaster{}

	a.session = labeling.NewSession(labeling.Options{
		Config:    a.cfg,
		Loop:      a.loop,
		Store:     a.project,
		Hooks:     a.project.Hooks(false),
		Inference: infer.NewHTTPClient(a.cfg.InferenceURL, a.cfg.Timeout()),
		ImageID:   a.project.ImageID,
	})
	a.session.SetFeature(a.project.Feature(labeling.DefaultFeature.Name, labeling.DefaultFeature.Color))
	a.session.SetRaycaster(&a.raycaster)
	a.session.SetCanvasElement(grid.Width, a.cfg.DevicePixelRate, surface.TextureSinkFunc(a.receiveOverlay))

	a.meshes.Submit(grid, mesh.Options{SizeX: surfaceSize, SizeY: surfaceSize, HeightScale: heightScale}, a.applySurface)
	a.loop.RequestFrame(a.renderFrame)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go func(loop *frame.Loop, done chan struct{}) {
		defer close(done)
		if err := loop.Run(ctx, a.cfg.FPS); err != nil && !errors.Is(err, context.Canceled) {
			logging.Component("gui").Error("frame loop stopped", "error", err)
		}
	}(a.loop, a.done)
}

// shutdown stops the running session and saves pending label changes
func (a *App) shutdown() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil

	a.session.Dispose()
	a.meshes.Close()
	a.loop.Close()

	if a.project.Dirty() {
		if err := a.project.Save(); err != nil {
			logging.Component("gui").Error("failed to save labels", "path", a.project.Path, "error", err)
		}
	}
}

func (a *App) applySurface(m *mesh.Mesh) {
	a.mesh = m
	a.camera = viewer.NewCamera(m.Bounds)
	a.raycaster.Camera = a.camera
	a.raycaster.Mesh = m
	a.raycaster.Width, a.raycaster.Height = a.view.ViewSize()
	a.session.SetCamera(a.camera)
	a.session.OnLoadMesh(m)
	a.dirty = true

	info := fmt.Sprintf("Surface: %dx%d\nVertices: %d\nTriangles: %d",
		m.Heights.Width, m.Heights.Width, m.VertexCount(), m.TriangleCount())
	fyne.Do(func() { a.info.surfaceLabel.SetText(info) })
}

// receiveOverlay keeps a copy of the canvas pixels for the next frame
func (a *App) receiveOverlay(img *image.RGBA) {
	if a.overlay == nil || a.overlay.Bounds() != img.Bounds() {
		a.overlay = image.NewRGBA(img.Bounds())
	}
	copy(a.overlay.Pix, img.Pix)
	a.dirty = true
}

// renderFrame draws the surface when something changed and requests
// itself for the next frame
func (a *App) renderFrame() {
	defer a.loop.RequestFrame(a.renderFrame)

	if a.mesh == nil {
		return
	}
	if !a.mesh.TakeColorsDirty() && !a.dirty {
		return
	}
	a.dirty = false

	w, h := a.view.ViewSize()
	if w < 1 || h < 1 {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	var overlay *image.RGBA
	if a.session.LabelsVisible() {
		overlay = a.overlay
	}
	viewer.Render(img, a.camera, a.mesh, overlay)
	a.view.SetFrame(img)

	a.updateInfo()
}

func (a *App) updateInfo() {
	state := a.session.State().String()
	mode := a.session.ToolMode().String()
	count := len(a.session.Labels())
	points := len(a.session.CurrentPoints())
	marks := len(a.session.Marks())
	fyne.Do(func() {
		a.info.stateLabel.SetText(fmt.Sprintf("State: %s\nMode: %s", state, mode))
		a.info.countLabel.SetText(fmt.Sprintf("Labels: %d\nPoints: %d\nMarks: %d", count, points, marks))
	})
}

// post hands fn to the loop goroutine and schedules a redraw
func (a *App) post(fn func()) {
	if a.loop == nil {
		return
	}
	a.loop.Post(func() {
		fn()
		a.dirty = true
	})
}

func (a *App) setupMainUI(filename string) {
	a.info = &LabelInfo{
		fileLabel:    widget.NewLabel(filepath.Base(filename)),
		surfaceLabel: widget.NewLabel("Surface: loading..."),
		stateLabel:   widget.NewLabel("State: idle"),
		countLabel:   widget.NewLabel("Labels: 0"),
	}
	a.info.fileLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.view = viewer.NewSurfaceView()
	a.view.OnTap = func(pos geometry.Point2D, secondary bool) {
		button := labeling.ButtonLeft
		if secondary {
			button = labeling.ButtonRight
		}
		a.post(func() { a.session.HandleClick(pos, button) })
	}
	a.view.OnMove = func(pos geometry.Point2D) {
		a.post(func() { a.session.HandlePointerMove(pos) })
	}
	a.view.OnOrbit = func(dx, dy float64) {
		a.post(func() {
			if a.camera != nil {
				a.camera.Rotate(-dx*0.005, dy*0.005)
			}
		})
	}
	a.view.OnZoom = func(delta float64) {
		a.post(func() {
			if a.camera != nil {
				a.camera.Zoom(delta)
			}
		})
	}
	a.view.OnResize = func(width, height float64) {
		a.post(func() {
			a.raycaster.Width = width
			a.raycaster.Height = height
		})
	}

	a.info.modeSelect = widget.NewRadioGroup([]string{"Draw", "Auto-label"}, func(selected string) {
		mode := labeling.ModeDraw
		if selected == "Auto-label" {
			mode = labeling.ModeAutoLabel
		}
		a.post(func() { a.session.SetToolMode(mode) })
	})
	a.info.modeSelect.SetSelected("Draw")

	subtractCheck := widget.NewCheck("Subtract", func(checked bool) {
		a.post(func() { a.session.SetSubtract(checked) })
	})

	visibleCheck := widget.NewCheck("Show Labels", func(checked bool) {
		a.post(func() { a.session.SetLabelsVisible(checked) })
	})
	visibleCheck.SetChecked(true)

	finishButton := widget.NewButton("Finish", func() {
		a.post(func() {
			if a.session.IsAutoLabeling() {
				a.session.FinishAutoLabel()
				return
			}
			a.session.FinishPolygonDrawing()
		})
	})

	cancelButton := widget.NewButton("Cancel", func() {
		a.post(func() {
			if a.session.IsAutoLabeling() {
				a.session.DiscardAutoLabel()
				return
			}
			a.session.CancelCurrentDrawing()
		})
	})

	undoButton := widget.NewButton("Undo", func() {
		a.post(a.session.UndoLatestShape)
	})

	clearButton := widget.NewButton("Clear Labels", func() {
		dialog.ShowConfirm("Clear Labels", "Remove all labels?", func(ok bool) {
			if ok {
				a.post(a.session.ClearAllLabels)
			}
		}, a.window)
	})

	saveButton := widget.NewButton("Save", func() {
		a.post(func() {
			err := a.project.Save()
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(fmt.Errorf("failed to save labels: %w", err), a.window)
				}
			})
		})
	})

	openButton := widget.NewButton("Open File", func() {
		a.showFileDialog()
	})

	// Instructions
	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Click on the surface to add polygon points\n" +
			"• Press Finish to close the polygon\n" +
			"• In auto-label mode, click to add positive marks\n" +
			"  and right-click to add negative marks\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out",
	)
	instructions.Wrapping = fyne.TextWrapWord

	// Create info panel
	infoPanel := container.NewVBox(
		a.info.fileLabel,
		widget.NewSeparator(),
		a.info.surfaceLabel,
		widget.NewSeparator(),
		widget.NewLabel("Labeling:"),
		widget.NewSeparator(),
		a.info.stateLabel,
		a.info.countLabel,
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		a.info.modeSelect,
		subtractCheck,
		visibleCheck,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, finishButton, cancelButton),
		container.NewGridWithColumns(2, undoButton, clearButton),
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		saveButton,
		openButton,
	)

	// Create scroll container for info panel
	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	// Create main layout
	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		a.view,     // center
	)

	a.window.SetContent(content)
}
