package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Processing %s": "%s を処理中",
		"Extracted %d frames at %.2f fps": "%d フレームを抽出しました (%.2f fps)",
		"Aligned %d face chips (%d frames without a face, %d failed)": "%d 枚の顔チップを生成しました (顔なし %d フレーム, 失敗 %d)",
		"Output saved to %s": "出力を %s に保存しました",
		"Failed to process %s: %s": "%s の処理に失敗しました: %s",
		"Failed to remove working area: %s": "作業領域の削除に失敗しました: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Batch
		"Processing %d videos from %s": "%[2]s の %[1]d 本の動画を処理中",
		"No input videos found in %s": "%s に入力動画が見つかりません",
		"[%d/%d] %s done": "[%d/%d] %s 完了",
		"[%d/%d] %s failed: %s": "[%d/%d] %s 失敗: %s",
		"Batch finished: %d succeeded, %d failed": "バッチ完了: 成功 %d, 失敗 %d",
		"Uploaded to %s": "%s にアップロードしました",
		"Failed to upload %s: %s": "%s のアップロードに失敗しました: %s",

		// Extract stage
		"Decoding %s (%dx%d @ %.3f fps)": "%s をデコード中 (%dx%d @ %.3f fps)",
		"Decoding stopped after %d frames: %v": "%d フレームでデコードが停止しました: %v",
		"Extracted %d frames": "%d フレームを抽出しました",

		// Align stage
		"Aligning %d frames with %d workers": "%d フレームを %d ワーカーで位置合わせ中",
		"Frame %d skipped: %v": "フレーム %d をスキップしました: %v",
		"No face in frame %d": "フレーム %d に顔がありません",
		"%d faces in frame %d": "フレーム %[2]d に %[1]d 個の顔",
		"Rescaling %dx%d chip to %d": "%dx%d のチップを %d にリサイズ中",
		"Alignment completed: %d chips, %d dropped, %d failed": "位置合わせ完了: チップ %d, 除外 %d, 失敗 %d",

		// Audio stage
		"Source has no audio stream": "音声ストリームがありません",
		"Audio extracted to %s": "音声を %s に抽出しました",
		"Audio extraction failed, output will be silent: %v": "音声の抽出に失敗しました。出力は無音になります: %v",

		// Compose stage
		"Encoding %d chips at %.3f fps": "%d 枚のチップを %.3f fps でエンコード中",
		"Encoded %d frames (%.2fs)": "%d フレームをエンコードしました (%.2f秒)",

		// Mux stage
		"Muxing %s (audio: %v)": "%s を多重化中 (音声: %v)",
		"Output promoted to %s (%d bytes)": "出力を %s に配置しました (%d バイト)",

		// Debug
		"Working area: %s": "作業領域: %s",
		"Run %s: %s -> %s": "実行 %s: %s -> %s",
	})
}
