package models

import (
	"strings"

	"golang.org/x/exp/slices"
)

type IconKind string

const (
	IconUser    IconKind = "user"
	IconProject IconKind = "project"
	IconTask    IconKind = "task"
)

// UnknownIcon is rendered for any name outside the catalog.
const UnknownIcon = "Unknown"

var iconCatalog = map[IconKind][]string{
	IconUser: {
		"User", "UserCog", "UserCircle", "Users", "UserCheck",
		"Briefcase", "Brain", "Code", "CodeXml", "Cog",
		"Database", "FileCode", "Glasses", "Laptop", "PenTool",
		"Palette", "Pencil", "Headphones", "Coffee",
	},
	IconProject: {
		"FolderKanban", "Folder", "FolderOpen", "Globe", "Laptop",
		"LayoutGrid", "Layers", "Lightbulb", "Rocket", "Shield",
		"Smartphone", "Star", "Target", "Trophy", "Building",
		"Briefcase", "Boxes", "BookOpen", "Landmark",
	},
	IconTask: {
		"CheckSquare", "ClipboardCheck", "FileText", "ListChecks", "ListTodo",
		"Lock", "PenTool", "Terminal", "Wrench", "Zap",
		"Code", "FileCode", "Settings", "Image", "LayoutGrid",
		"MessageSquare", "Pencil", "Search", "BookOpen", "PieChart",
	},
}

var iconGlyphs = map[string]string{
	"User": "👤", "UserCog": "⚙", "UserCircle": "◉", "Users": "👥", "UserCheck": "✔",
	"Briefcase": "💼", "Brain": "🧠", "Code": "⌨", "CodeXml": "</>", "Cog": "⚙",
	"Database": "🗄", "FileCode": "📄", "Glasses": "👓", "Laptop": "💻", "PenTool": "✒",
	"Palette": "🎨", "Pencil": "✏", "Headphones": "🎧", "Coffee": "☕",
	"FolderKanban": "🗂", "Folder": "📁", "FolderOpen": "📂", "Globe": "🌐",
	"LayoutGrid": "▦", "Layers": "☰", "Lightbulb": "💡", "Rocket": "🚀", "Shield": "🛡",
	"Smartphone": "📱", "Star": "★", "Target": "🎯", "Trophy": "🏆", "Building": "🏢",
	"Boxes": "📦", "BookOpen": "📖", "Landmark": "🏛",
	"CheckSquare": "☑", "ClipboardCheck": "📋", "FileText": "📝", "ListChecks": "✅", "ListTodo": "☐",
	"Lock": "🔒", "Terminal": "▣", "Wrench": "🔧", "Zap": "⚡", "Settings": "⚙",
	"Image": "🖼", "MessageSquare": "💬", "Search": "🔍", "PieChart": "◔",
	UnknownIcon: "?",
}

// NormalizeIconName accepts kebab-case ("folder-kanban") and lower-initial
// ("rocket") spellings and returns the catalog spelling.
func NormalizeIconName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// ValidIcon reports whether name, once normalized, belongs to the catalog for kind.
func ValidIcon(kind IconKind, name string) bool {
	return slices.Contains(iconCatalog[kind], NormalizeIconName(name))
}

// Icons returns the catalog for kind.
func Icons(kind IconKind) []string {
	return slices.Clone(iconCatalog[kind])
}

// IconGlyph returns the terminal glyph for name, falling back to the unknown glyph.
func IconGlyph(name string) string {
	if g, ok := iconGlyphs[NormalizeIconName(name)]; ok {
		return g
	}
	return iconGlyphs[UnknownIcon]
}
