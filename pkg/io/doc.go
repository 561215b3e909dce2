// Package io provides JSON import and export for family-tree projects.
//
// # Overview
//
// A project file is a single JSON object holding people, relations, viewer
// settings and metadata. The format round-trips: a project written with
// [WriteJSON] reads back with [ReadJSON] unchanged and with no repairs.
//
// # JSON Format
//
//	{
//	  "dataVersion": 2,
//	  "ui": {"hideOriginBadges": false, "filterCountry": "All", "filterCity": "All"},
//	  "people": [
//	    {"id": "p1", "name": "Walter Hughes", "birthYear": "1950", "x": 100, "y": 100},
//	    {"id": "p2", "name": "Daniel Hughes", "birthYear": "1975", "x": 100, "y": 220}
//	  ],
//	  "relations": [
//	    {"id": "r1", "type": "PARENT_CHILD", "aId": "p1", "bId": "p2"}
//	  ],
//	  "meta": {"projectName": "Hughes"}
//	}
//
// PARENT_CHILD relations are directed (aId is the parent); SPOUSE relations
// are symmetric. x and y are card centres written by the layout engine or by
// a manual drag (hasManualPos).
//
// # Import
//
// Files from older versions or other tools are repaired rather than
// rejected. [ReadJSON] generates missing ids, drops duplicate people, names
// blank people "Unknown", drops relations that cannot be valid and migrates
// the document to the current data version. Every repair is listed in the
// returned [Report]:
//
//	p, report, err := io.ImportJSON("hughes.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range report.Warnings {
//	    log.Println(w)
//	}
//
// Import does not check for parent cycles; that is the job of the relation
// guard in package family, and the layout engine degrades gracefully when
// handed cyclic data.
//
// # Export
//
// [ExportJSON] writes indented JSON through a temporary file and an atomic
// rename.
package io
