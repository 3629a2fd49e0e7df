package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting detection run %s":                  "検出処理 %s を開始します",
		"Saved upload to %s":                         "アップロードを %s に保存しました",
		"Processed video saved to %s":                "処理済み動画を %s に保存しました",
		"Run %s completed: %d frames, %d detections": "処理 %s が完了しました: %d フレーム, %d 件の検出",
		"Interrupted, shutting down...":              "中断されました。シャットダウン中...",

		// Detect stage
		"Opening video...":                                                 "動画を開いています...",
		"Video stats - FPS: %.2f, Width: %d, Height: %d, Total Frames: %d": "動画情報 - FPS: %.2f, 幅: %d, 高さ: %d, 総フレーム数: %d",
		"Starting frame processing...":                                     "フレーム処理を開始します...",
		"Processing frame %d...":                                           "フレーム %d を処理中...",
		"New unique frame detected: %016x":                                 "新しいフレームを検出しました: %016x",
		"Predictions for frame %d: %d":                                     "フレーム %d の予測数: %d",
		"Writing frame %d to processed video...":                           "フレーム %d を処理済み動画に書き込み中...",
		"End of video reached after %d frames":                             "%d フレームで動画の終端に達しました",
		"Releasing video resources":                                        "動画リソースを解放しています",

		// Annotate stage
		"Disease detected - Frame: %d, Label: %s, Part: %s": "病気を検出 - フレーム: %d, ラベル: %s, 部位: %s",

		// Inference client
		"Received %d predictions in %dms": "%d 件の予測を %dms で受信しました",

		// Server
		"Listening on %s":              "%s で待ち受けています",
		"Received %s for %s detection": "%s を受信しました (%s の検出)",
		"Serving %s":                   "%s を配信中",
		"Shutting down server":         "サーバーを停止しています",

		// Warnings
		"Failed to save debug frame %d: %s": "デバッグフレーム %d の保存に失敗しました: %s",
		"Failed to save debug report: %s":   "デバッグレポートの保存に失敗しました: %s",
		"ffmpeg stopped decoding %s: %s%s":  "ffmpeg が %s のデコードを中断しました: %s%s",

		// Errors
		"Failed to open video file: %s":         "動画ファイルを開けませんでした: %s",
		"Failed to initialize video writer: %s": "動画ライターの初期化に失敗しました: %s",
		"Error processing frame %d: %s":         "フレーム %d の処理中にエラーが発生しました: %s",
		"Failed to save upload: %s":             "アップロードの保存に失敗しました: %s",
		"Detection run %s failed: %s":           "検出処理 %s が失敗しました: %s",
		"Processed video not found at %s":       "処理済み動画が %s に見つかりません",
		"Detection request failed: %s":          "検出リクエストが失敗しました: %s",
	})
}
