// Package config loads browser configuration documents and holds the
// tool's path settings.
//
// A document is YAML by default; files ending in .toml are read as TOML
// and .json/.jsonc as JSON with comments. All three syntaxes decode to the
// same tree and then to a Document:
//
//	profile:
//	  name: default
//	  install_path: auto
//	extensions:
//	  - uBlock0@raymondhill.net
//	  - https://example.com/addon.xpi
//	config:
//	  browser:
//	    startup:
//	      page: 3
//	toolbar: { placements: {...}, seen: [...], currentVersion: 20 }
//	zen_mods: [ "Better Find Bar", { id: "..." } ]
//	containers:
//	  - { name: Work, color: blue, icon: briefcase }
//
// Decode errors are errors.ValidationError values whose Path is the
// offending key path, for example "containers[1].color".
//
// Relative paths (certificates_dir) resolve against the directory of the
// configuration file, never the working directory.
package config
