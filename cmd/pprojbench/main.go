// Copyright 2025 parallelproj Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pprojbench runs the three demonstration scenarios of spec
// §8 against the projector core: a point-source forward projection, a
// TOF-sinogram profile whose sum over bins is reported (no FWHM check
// is made), and an adjointness check
// over a batch of random sphere LORs. It replaces the original Python
// demo script, intentionally without that script's copy-paste LOR
// endpoint assignment bug (spec §9).
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"

	"github.com/lukepolson/parallelproj"
	"github.com/lukepolson/parallelproj/internal/randlor"
)

func main() {
	app := &cli.App{
		Name:  "pprojbench",
		Usage: "demonstrate and benchmark the Joseph 3D projector",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "scenario",
				Usage:    "path to a scenario YAML file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("pprojbench failed")
	}
}

func run(c *cli.Context) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if c.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	s, err := LoadScenario(c.String("scenario"))
	if err != nil {
		return err
	}

	ctx, err := parallelproj.DefaultContext()
	if err != nil {
		return err
	}
	log.Debug().Int("cuda_devices", ctx.NumVisibleCUDADevices()).Msg("context resolved")

	switch s.Kind {
	case "point-source":
		return runPointSource(ctx, s)
	case "tof-profile":
		return runTOFProfile(ctx, s)
	case "adjoint":
		return runAdjoint(ctx, s)
	}
	return nil
}

func centeredOrigin(dims [3]int, voxsize [3]float32) [3]float32 {
	var origin [3]float32
	for a := 0; a < 3; a++ {
		origin[a] = (-float32(dims[a])/2 + 0.5) * voxsize[a]
	}
	return origin
}

// runPointSource reproduces spec §8's "point source, non-TOF" scenario:
// a single center voxel of value 1, one LOR straight through the
// center along axis 0.
func runPointSource(ctx *parallelproj.Context, s Scenario) error {
	origin := centeredOrigin(s.Dims, s.VoxSize)
	n := s.Dims[0] * s.Dims[1] * s.Dims[2]
	data := make([]float32, n)
	strides := [3]int{s.Dims[1] * s.Dims[2], s.Dims[2], 1}
	center := [3]int{s.Dims[0] / 2, s.Dims[1] / 2, s.Dims[2] / 2}
	data[center[0]*strides[0]+center[1]*strides[1]+center[2]*strides[2]] = 1

	img := parallelproj.Image{Dims: s.Dims, VoxSize: s.VoxSize, Origin: origin, Data: data}
	lors := parallelproj.LORBatch{
		XStart: []float32{100, 0, 0},
		XEnd:   []float32{-100, 0, 0},
	}

	out := make([]float32, 1)
	if err := parallelproj.Forward(ctx, lors, img, out); err != nil {
		return err
	}

	log.Info().Float32("forward_value", out[0]).Float32("expected", s.VoxSize[0]).Msg("point-source forward projection")
	fmt.Printf("forward = %v (expected ~ %v)\n", out[0], s.VoxSize[0])
	return nil
}

// runTOFProfile reproduces spec §8's "point source, TOF sinogram"
// scenario and reports the sum of the profile over all TOF bins. It
// does not check the profile's FWHM.
func runTOFProfile(ctx *parallelproj.Context, s Scenario) error {
	origin := centeredOrigin(s.Dims, s.VoxSize)
	n := s.Dims[0] * s.Dims[1] * s.Dims[2]
	data := make([]float32, n)
	strides := [3]int{s.Dims[1] * s.Dims[2], s.Dims[2], 1}
	center := [3]int{s.Dims[0] / 2, s.Dims[1] / 2, s.Dims[2] / 2}
	data[center[0]*strides[0]+center[1]*strides[1]+center[2]*strides[2]] = 1

	img := parallelproj.Image{Dims: s.Dims, VoxSize: s.VoxSize, Origin: origin, Data: data}
	lors := parallelproj.LORBatch{
		XStart: []float32{100, 0, 0},
		XEnd:   []float32{-100, 0, 0},
	}

	sigma := s.FWHM / (2 * float32(math.Sqrt(2*math.Log(2))))
	tof := parallelproj.TOFParams{
		BinWidth:     s.TOFBinWidth,
		Sigma:        []float32{sigma},
		CenterOffset: []float32{0},
		NSigmas:      s.NSigmas,
		NBins:        s.NTOFBins,
	}

	out := make([]float32, s.NTOFBins)
	if err := parallelproj.ForwardTOFSino(ctx, lors, img, tof, out); err != nil {
		return err
	}

	var sum float32
	for _, v := range out {
		sum += v
	}
	log.Info().Float32("sum", sum).Float32("expected", s.VoxSize[0]).Msg("TOF profile sum")
	fmt.Printf("sum over TOF bins = %v (expected ~ %v)\n", sum, s.VoxSize[0])
	return nil
}

// runAdjoint reproduces spec §8's adjointness scenario: a batch of
// random sphere LORs against a random image, comparing <Ax,y> to
// <x,A^T y>.
func runAdjoint(ctx *parallelproj.Context, s Scenario) error {
	rng := rand.New(rand.NewSource(int64(s.Seed)))
	origin := centeredOrigin(s.Dims, s.VoxSize)
	n := s.Dims[0] * s.Dims[1] * s.Dims[2]

	x := make([]float32, n)
	for i := range x {
		x[i] = rng.Float32()
	}
	img := parallelproj.Image{Dims: s.Dims, VoxSize: s.VoxSize, Origin: origin, Data: x}

	maxDim := float32(0)
	for a := 0; a < 3; a++ {
		if d := float32(s.Dims[a]) * s.VoxSize[a]; d > maxDim {
			maxDim = d
		}
	}
	R := 0.8 * maxDim

	bar := progressbar.Default(int64(s.NumLORs), "generating LORs")
	xstart, xend := randlor.Sphere(rng, s.NumLORs, R)
	bar.Add(s.NumLORs)

	y := make([]float32, s.NumLORs)
	for i := range y {
		y[i] = rng.Float32()
	}

	lors := parallelproj.LORBatch{XStart: xstart, XEnd: xend}
	fwd := make([]float32, s.NumLORs)
	if err := parallelproj.Forward(ctx, lors, img, fwd); err != nil {
		return err
	}

	var ipA float64
	for k := range fwd {
		ipA += float64(fwd[k]) * float64(y[k])
	}

	back, err := parallelproj.Back(ctx, lors, s.Dims, origin, s.VoxSize, y)
	if err != nil {
		return err
	}

	var ipB float64
	for i := range x {
		ipB += float64(x[i]) * float64(back.Data[i])
	}

	rel := (ipA - ipB) / math.Max(math.Abs(ipA), math.Abs(ipB))
	log.Info().Float64("ip_forward", ipA).Float64("ip_back", ipB).Float64("relative_error", rel).Msg("adjointness check")
	fmt.Printf("<Ax,y>=%v  <x,A'y>=%v  relative error=%v\n", ipA, ipB, rel)
	return nil
}
