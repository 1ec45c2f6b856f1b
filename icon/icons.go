package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Mark
	Progress
	Link
	Play
	Pause
	Ended
	Volume
	Muted
	Fullscreen
	Theater
	PictureInPicture
	Share
	Download
	Quality
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Mark: {
		emoji:   "✔️",
		nerd:    "",
		plain:   "*",
		kaomoji: "(＾▽＾)",
		squares: "🟪",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "@",
		kaomoji: "┌(・。・)┘♪",
		squares: "🟦",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "🟨",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "🟨",
	},
	Ended: {
		emoji:   "🏁",
		nerd:    "",
		plain:   "#",
		kaomoji: "(๑˃ᴗ˂)ﻭ",
		squares: "⬛",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "ヽ(o＾▽＾o)ノ",
		squares: "🟦",
	},
	Muted: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "mute",
		kaomoji: "(￣ー￣)",
		squares: "⬜",
	},
	Fullscreen: {
		emoji:   "🖥️",
		nerd:    "",
		plain:   "[ ]",
		kaomoji: "(⌐■_■)",
		squares: "🟫",
	},
	Theater: {
		emoji:   "🎭",
		nerd:    "",
		plain:   "T",
		kaomoji: "(¬‿¬)",
		squares: "🟪",
	},
	PictureInPicture: {
		emoji:   "🪟",
		nerd:    "",
		plain:   "pip",
		kaomoji: "(°ロ°)",
		squares: "🟧",
	},
	Share: {
		emoji:   "📤",
		nerd:    "",
		plain:   "^",
		kaomoji: "(っ˘ω˘ς)",
		squares: "🟨",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "v",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟦",
	},
	Quality: {
		emoji:   "⚙️",
		nerd:    "",
		plain:   "q",
		kaomoji: "(•_•)",
		squares: "⬜",
	},
}
