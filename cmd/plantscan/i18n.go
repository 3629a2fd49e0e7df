// Package main provides localization for the plantscan CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Logging":       "ログ",
		"Debug":         "デバッグ",

		// Root command
		"Detect plant diseases in videos": "動画から植物の病気を検出",

		// Global flags
		"Path to a YAML configuration file":             "YAML設定ファイルのパス",
		"Log level (debug, info, warn, error)":          "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                       "全てのログ出力を抑制",
		"Save sampled frames and reports for every run": "処理ごとにサンプリングしたフレームとレポートを保存",
		"Directory for debug output":                    "デバッグ出力のディレクトリ",

		// Serve command
		"Start the HTTP server":                 "HTTPサーバーを起動",
		"Address to listen on (default: :5000)": "待ち受けアドレス（デフォルト: :5000）",

		// Detect command
		"Detect diseases in a local video":                        "ローカル動画の病気を検出",
		"Input video file path":                                   "入力動画ファイルのパス",
		"Plant type shown in captions (e.g., tomato)":             "キャプションに表示する植物の種類（例: tomato）",
		"Output MP4 file path (default: in the processed folder)": "出力MP4ファイルパス（デフォルト: 処理済みフォルダ内）",
		"Output execution summary to file (Markdown format)":      "実行サマリーをファイルに出力（Markdown形式）",
		"Hide the progress bar":                                   "プログレスバーを表示しない",
		"Video argument is required":                              "動画の指定が必要です",
		"Processing frames":                                       "フレーム処理中",
		"Detecting %s diseases in %s...":                          "%s の病気を %s から検出中...",
		"Frame %d: %s detected on %s of %s plant":                 "フレーム %d: %s の %s の %s で検出",
		"No diseases detected.":                                   "病気は検出されませんでした。",
		"Output saved to %s":                                      "出力を %s に保存しました",
		"Summary saved to %s":                                     "サマリーを %s に保存しました",
		"Failed to write summary: %s":                             "サマリーの書き込みに失敗しました: %s",

		// Latest command
		"Print the path of the most recent processed video": "最新の処理済み動画のパスを表示",

		// Version command
		"Show version information": "バージョン情報を表示",
		"plantscan version %s":     "plantscan バージョン %s",

		// Summary content
		"Detection Summary":    "検出サマリー",
		"Item":                 "項目",
		"Value":                "値",
		"Run":                  "実行",
		"Run ID":               "実行ID",
		"Plant Type":           "植物の種類",
		"Source":               "入力",
		"Output":               "出力",
		"Processing Time":      "処理時間",
		"Video":                "動画",
		"Resolution":           "解像度",
		"Frame Rate":           "フレームレート",
		"Total Frames":         "総フレーム数",
		"Frames Written":       "書き込みフレーム数",
		"Inference":            "推論",
		"Model":                "モデル",
		"Sampling":             "サンプリング",
		"first frames":         "先頭フレーム数",
		"Confidence":           "信頼度",
		"Overlap":              "重なり",
		"Sampled Frames":       "サンプリング数",
		"Unique Frames":        "ユニークフレーム数",
		"Detections":           "検出数",
		"Findings":             "検出結果",
		"No disease detected.": "病気は検出されませんでした。",
		"Disease":              "病名",
		"Plant Part":           "部位",
		"Count":                "件数",
		"Frames":               "フレーム",
		"Generated at":         "生成日時",
	})
}
