// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command gskrender renders a YAML scene of render nodes to a PNG file.
//
// Usage:
//
//	gskrender -scene scene.yaml -output out.png
//	gskrender -scene scene.yaml -ops
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/gsk"
	"github.com/gogpu/gsk/backend"
	_ "github.com/gogpu/gsk/backend/rust"
	_ "github.com/gogpu/gsk/backend/wgpu"
)

func main() {
	var (
		scenePath   = flag.String("scene", "scene.yaml", "scene file")
		output      = flag.String("output", "out.png", "output PNG file")
		printOps    = flag.Bool("ops", false, "print the op stream instead of rendering")
		noOcclusion = flag.Bool("no-occlusion", false, "disable occlusion culling")
		debugOcc    = flag.Bool("debug-occlusion", false, "tint occlusion sub-passes")
		patterns    = flag.Bool("patterns", false, "encode color nodes as pattern ops")
		backendName = flag.String("backend", backend.BackendSoftware, "render backend")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		gsk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(*scenePath, *output, *printOps, *backendName,
		gsk.WithOcclusionCulling(!*noOcclusion),
		gsk.WithDebugOcclusion(*debugOcc),
		gsk.WithPatternShaders(*patterns),
	); err != nil {
		log.Fatalf("gskrender: %v", err)
	}
}

func run(scenePath, output string, printOps bool, backendName string, opts ...gsk.RendererOption) error {
	scene, err := LoadScene(scenePath)
	if err != nil {
		return err
	}
	viewport, err := scene.ViewportRect()
	if err != nil {
		return err
	}
	root, err := newSceneBuilder(filepath.Dir(scenePath)).build(&scene.Root, "root")
	if err != nil {
		return err
	}

	r, err := gsk.NewRenderer(append(opts, gsk.WithBackend(backendName))...)
	if err != nil {
		return err
	}
	defer r.Close()

	if printOps {
		fmt.Print(r.Ops(root, scene.Width, scene.Height, nil, viewport))
		return nil
	}

	target := image.NewRGBA(image.Rect(0, 0, scene.Width, scene.Height))
	stats, err := r.Render(context.Background(), root, target, nil, viewport)
	if err != nil {
		return err
	}
	if err := writePNG(output, target); err != nil {
		return err
	}
	log.Printf("rendered %s (%dx%d) on %s: %d ops, %d occlusion passes, %d fallback passes",
		output, scene.Width, scene.Height, r.Backend(), stats.Ops, stats.OcclusionPasses, stats.FallbackPasses)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
