// Package paths provides standardized container paths.
//
// # Directory Structure
//
//	<container>/
//	  ├── Designs/
//	  │   └── <id>/
//	  │       ├── <id>_manifest.json
//	  │       └── frames/<id>_frame_NN.png
//	  ├── State/
//	  │   ├── featured_config.json
//	  │   ├── slots.json
//	  │   └── instances/<instanceId>.json
//	  └── Signals/<kind>.json
//
//	<bundle>/TestDesigns/<id>/<id>_frame_NN.png
//	<cache>/frames/<id>/NN.png
//
// # Usage
//
//	design := paths.DesignPath("abc")
//	frame := design.Frame(3)       // Designs/abc/frames/abc_frame_03.png
//	doc := paths.InstanceDoc(id)   // State/instances/<id>.json
package paths
