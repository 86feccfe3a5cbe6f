package color

// KeycapSwatches is the default keycap palette.
var KeycapSwatches = []string{
	"#1f2937", // gray-800
	"#374151", // gray-700
	"#6b7280", // gray-500
	"#f3f4f6", // gray-100
	"#ffffff",
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
}

// CableSwatches is the default cable palette.
var CableSwatches = []string{
	"#000000",
	"#ffffff",
	"#ef4444",
	"#3b82f6",
	"#22c55e",
	"#eab308",
	"#8b5cf6",
	"#ec4899",
}
