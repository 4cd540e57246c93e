package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"AutoPageShot/apperr"
	"AutoPageShot/config"
	"AutoPageShot/focus"
	"AutoPageShot/output"
)

func newCompileCmd(d config.Defaults) *cobra.Command {
	var (
		dir   string
		scale = d.QualityScale
		out   string
		title string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "フォルダ内の画像をファイル名順に PDF にまとめる",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return apperr.New(apperr.KindConfig, "画像フォルダを指定してください。")
			}
			if out == "" {
				name := title
				if name == "" {
					name = filepath.Base(filepath.Clean(dir))
				}
				out = filepath.Join(dir, output.PDFFileName(name))
			}
			c := &output.Compiler{JPEGQuality: d.JPEGQuality, Title: title}
			rep, err := c.CompileDir(dir, scale, out)
			if err != nil {
				return err
			}
			fmt.Printf("完了: %d ページの PDF を %s に出力しました（%d dpi）。\n", rep.Pages, rep.Path, rep.DPI)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "画像フォルダ")
	cmd.Flags().Float64Var(&scale, "scale", scale, "PDF品質設定 1.0〜3.0 倍")
	cmd.Flags().StringVar(&out, "out", "", "PDF出力パス（省略時はフォルダ内にフォルダ名で作成）")
	cmd.Flags().StringVar(&title, "title", "", "PDFのタイトル")
	return cmd
}

func newTitlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "titles",
		Short: "--focus-title に指定できるウィンドウタイトルを表示する（Windows）",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range focus.ListVisibleWindowTitles() {
				fmt.Println(t)
			}
			return nil
		},
	}
}
