// Package main provides localization for the centerstage CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration":     "設定",
		"Face Alignment":    "顔の位置合わせ",
		"Video and Quality": "動画と品質",
		"Tools":             "ツール",
		"Publishing":        "公開",
		"Debug":             "デバッグ",
		"Logging":           "ログ",

		// Root command
		"Center every face in a video and rebuild it at the original frame rate": "動画内の顔を中央に配置し、元のフレームレートで再構成",
		"centerstage extracts every frame of a video, aligns each detected face into a square chip, and encodes the chips back into a video with the original audio.": "centerstageは動画の全フレームを抽出し、検出した顔を正方形のチップに揃え、元の音声とともに動画へ再エンコードします。",

		// Commands
		"Process a single video":             "1本の動画を処理",
		"Process every video in a directory": "ディレクトリ内の全動画を処理",
		"Show version information":           "バージョン情報を表示",
		"centerstage version %s":             "centerstage バージョン %s",

		// Input / output flags
		"Input video (.mp4 or .avi)":                    "入力動画（.mp4 または .avi）",
		"Output directory (default: current directory)": "出力ディレクトリ（デフォルト: カレントディレクトリ）",
		"Directory of input videos":                     "入力動画のディレクトリ",
		"Files processed concurrently (default: 1)":     "同時に処理するファイル数（デフォルト: 1）",

		// Configuration flags
		"YAML configuration file": "YAML設定ファイル",
		"Directory for working areas (default: system temp)": "作業領域のディレクトリ（デフォルト: システムの一時ディレクトリ）",

		// Alignment flags
		"Aligner backend (command, gocv)":                 "位置合わせバックエンド（command, gocv）",
		"Face alignment program for the command backend":  "commandバックエンドで使う顔位置合わせプログラム",
		"Face model file":                                 "顔モデルファイル",
		"Parallel alignment workers (0 = number of CPUs)": "位置合わせの並列ワーカー数（0 = CPU数）",
		"Side length of face chips in pixels (default: 512)":                "顔チップの一辺のピクセル数（デフォルト: 512）",
		"Context around the face as a fraction of its size (default: 0.75)": "顔の周囲に含める余白の割合（デフォルト: 0.75）",

		// Video flags
		"Quality preset (low, medium, high)":                                "品質プリセット（low, medium, high）",
		"Video CRF value (0-51, lower is better, overrides quality preset)": "動画のCRF値（0-51、低いほど高品質、品質プリセットを上書き）",
		"x264 encoder preset (default: fast)":                               "x264エンコーダープリセット（デフォルト: fast）",
		"Format of staged frames (jpeg, png)":                               "中間フレームの形式（jpeg, png）",

		// Tool flags
		"Path to ffmpeg (falls back to FFMPEG_PATH, then PATH)":   "ffmpegのパス（未指定時は FFMPEG_PATH、次に PATH）",
		"Path to ffprobe (falls back to FFPROBE_PATH, then PATH)": "ffprobeのパス（未指定時は FFPROBE_PATH、次に PATH）",

		// Publishing flags
		"Upload outputs to this S3 bucket": "出力をこのS3バケットにアップロード",
		"Key prefix for uploaded outputs":  "アップロードするキーの接頭辞",
		"S3 region":                        "S3リージョン",
		"Custom S3-compatible endpoint":    "S3互換エンドポイント",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Suppress all log output":              "全てのログ出力を抑制",
		"Disable the progress bar":             "プログレスバーを無効化",

		// Runtime messages
		"Error: %s":                    "エラー: %s",
		"input file is required (-f)":  "入力ファイルが必要です（-f）",
		"%d of %d videos failed":       "%d / %d 本の動画が失敗しました",
		"Done: %d of %d frames kept":   "完了: %d / %d フレームを保持",
		"Cleanup failed: %s":           "後処理に失敗しました: %s",

		// Summary output
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Summary saved to %s":                                "サマリーを %s に保存しました",
		"Failed to write summary: %s":                        "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Run Summary":       "実行サマリー",
		"Generated":         "生成日時",
		"Succeeded":         "成功",
		"Settings":          "設定",
		"Results":           "実行結果",
		"Errors":            "エラー",
		"Item":              "項目",
		"Value":             "値",
		"Aligner":           "位置合わせ",
		"Model":             "モデル",
		"Chip Size":         "チップサイズ",
		"Frame Format":      "フレーム形式",
		"Workers":           "ワーカー数",
		"Jobs":              "同時処理数",
		"CRF":               "CRF値",
		"Encoder Preset":    "エンコーダープリセット",
		"File":              "ファイル",
		"State":             "状態",
		"Frames":            "フレーム数",
		"Chips":             "チップ数",
		"Dropped":           "除外",
		"Failed":            "失敗",
		"Audio":             "音声",
		"Output":            "出力",
		"Yes":               "あり",
		"Lost":              "抽出失敗",
		"None":              "なし",
		"Video Duration":    "動画再生時間",
		"Video File Size":   "動画ファイルサイズ",
		"Multi-face Frames": "複数顔フレーム",
		"Processing Time":   "処理時間",
		"Published":         "公開先",
		"Generated by":      "生成:",
	})
}
