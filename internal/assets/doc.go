// Package assets provides the card template and theme stylesheets.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in themes and the card template
//	    ├── FilesystemLoader  - a custom directory on disk
//	    └── AssetResolver     - custom first, built-in as fallback
//
// Built-in themes: default, instagram, wechat, zhihu, dark. A theme only
// sets colors and decorations through CSS custom properties; sizes and
// spacing come from the generated card stylesheet so measured heights stay
// valid whatever theme is used.
//
// # Directory Structure
//
//	{basePath}/
//	├── themes/
//	│   └── {name}.css
//	└── templates/
//	    └── card.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
