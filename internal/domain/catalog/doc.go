// Package catalog discovers animation designs.
//
// A design is a directory holding numbered frame images and, optionally, a
// manifest with its display name, frame count and frame interval:
//
//	Designs/abc/abc_manifest.json        (or .yaml)
//	Designs/abc/frames/abc_frame_01.png
//	TestDesigns/test01/test01_frame_01.png   (bundle)
//
// Without a manifest the frame count is the number of abc_frame_NN.png files.
package catalog
