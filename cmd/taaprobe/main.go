// Command taaprobe runs the temporal anti-aliasing core headless and
// prints what a host renderer would receive each frame.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gogpu/taa"
	"github.com/gogpu/taa/render"
)

func main() {
	var (
		frames   = flag.Int("frames", 16, "number of frames to run")
		width    = flag.Int("width", 1920, "target width")
		height   = flag.Int("height", 1080, "target height")
		resize   = flag.Int("resize-at", -1, "frame at which the target is halved (-1 = never)")
		fov      = flag.Float64("fov", 60, "vertical field of view in degrees")
		ortho    = flag.Bool("ortho", false, "use an orthographic projection")
		gl       = flag.Bool("gl", false, "use the OpenGL clip-space convention")
		settings = flag.String("settings", "", "TOML settings file")
		useEnv   = flag.Bool("env", false, "overlay "+taa.DefaultEnvPrefix+"* environment variables")
		shader   = flag.String("shader", "", "WGSL resolve shader to compile")
		pngOut   = flag.String("png", "", "write the jitter pattern to this PNG file")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	taa.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := taa.DefaultSettings()
	if *settings != "" {
		var err error
		if s, err = taa.LoadSettings(*settings); err != nil {
			log.Fatalf("settings: %v", err)
		}
	}
	if *useEnv {
		if err := s.ApplyEnv(taa.DefaultEnvPrefix); err != nil {
			log.Fatalf("settings: %v", err)
		}
	}

	conv := taa.WebGPU
	if *gl {
		conv = taa.OpenGL
	}

	shaders := taa.ShaderMap{}
	if *shader != "" {
		src, err := os.ReadFile(*shader)
		if err != nil {
			log.Fatalf("shader: %v", err)
		}
		shaders[taa.ResolveShaderName] = string(src)
	}

	alloc := render.NewMemoryAllocator(8192)
	f := taa.New(alloc,
		taa.WithSettings(s),
		taa.WithConvention(conv),
		taa.WithShaderLibrary(shaders),
		taa.WithObjectIDScale(0.5),
	)
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("close: %v", err)
		}
		log.Printf("textures: %s", alloc.Stats())
	}()

	w, h := *width, *height
	for n := 0; n < *frames; n++ {
		if n == *resize {
			w, h = max(1, w/2), max(1, h/2)
		}
		view := makeView(conv, w, h, float32(*fov), *ortho, n)
		if err := runFrame(f, view, n); err != nil {
			log.Printf("frame %d: %v", n, err)
		}
	}

	if *pngOut != "" {
		if err := writePattern(*pngOut, s.JitterAmount); err != nil {
			log.Fatalf("png: %v", err)
		}
		log.Printf("jitter pattern saved to %s", *pngOut)
	}
}

func makeView(conv taa.Convention, w, h int, fovDeg float32, ortho bool, n int) taa.View {
	aspect := float32(w) / float32(h)
	near, far := float32(0.1), float32(1000)
	var fr taa.Frustum
	var proj taa.Mat4
	if ortho {
		half := float32(5)
		fr = taa.Frustum{Left: -half * aspect, Right: half * aspect, Bottom: -half, Top: half, Near: near, Far: far}
		proj = conv.Orthographic(fr)
	} else {
		top := near * math32.Tan(fovDeg*math32.Pi/360)
		fr = taa.Frustum{Left: -top * aspect, Right: top * aspect, Bottom: -top, Top: top, Near: near, Far: far}
		proj = conv.Perspective(fr)
	}
	return taa.View{
		Projection:   proj,
		Orthographic: ortho,
		Width:        w,
		Height:       h,
		Eye:          [3]float32{0.05 * float32(n), 0, 0},
	}
}

func runFrame(f *taa.Feature, view taa.View, n int) error {
	frame, err := f.BeginCamera(taa.Camera{ID: 1, Kind: taa.KindPrimary, View: view})
	if err != nil {
		return err
	}
	p := frame.Projection()
	params := frame.Params()
	st := frame.State()
	fmt.Printf("frame %2d  %4dx%-4d  jitter (%+.4f, %+.4f)  m[8]=%+.6f m[9]=%+.6f  read=%d write=%d reset=%-5t  %s\n",
		n, view.Width, view.Height, p.Jitter.X, p.Jitter.Y,
		p.Jittered[8], p.Jittered[9],
		st.History().ReadSlot(), st.History().WriteSlot(), params.ResetHistory, params.Flags)

	return frame.Resolve(func(in taa.ResolveInputs) error {
		if in.SeedHistory {
			fmt.Printf("          seed %s and %s\n", in.PreviousColor.Label(), in.NextColor.Label())
		}
		fmt.Printf("          resolve %d SPIR-V words, %d uniform bytes\n", len(in.SPIRV), len(in.Params.Bytes()))
		return nil
	})
}

// writePattern draws the jitter sequence inside one pixel and upscales
// it for viewing.
func writePattern(path string, amount float32) error {
	const cell, scale = 32, 8
	src := image.NewRGBA(image.Rect(0, 0, cell, cell))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{24, 24, 32, 255}), image.Point{}, draw.Src)
	for n := 0; n < taa.SamplePeriod; n++ {
		j := taa.JitterAt(n, amount)
		x := int((j.X + 0.5) * cell)
		y := int((0.5 - j.Y) * cell)
		shade := uint8(96 + 159*n/(taa.SamplePeriod-1))
		src.Set(min(x, cell-1), min(y, cell-1), color.RGBA{shade, 255 - shade, 64, 255})
	}

	dst := image.NewRGBA(image.Rect(0, 0, cell*scale, cell*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
