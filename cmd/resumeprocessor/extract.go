package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ats-engine/internal/config"
	appCoreLogger "ats-engine/internal/logger"
	"ats-engine/internal/parser"
	"ats-engine/internal/processor"
	"ats-engine/pkg/utils"
)

func newPDFExtractor(ctx context.Context, cfg *config.Config) (*parser.EinoPDFTextExtractor, error) {
	return parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(appCoreLogger.Named("pdf")),
		parser.WithEinoTimeout(cfg.PDFExtractTimeout()),
	)
}

// 处理提取文本命令
func handleExtractCommand(cfg *config.Config) error {
	absPath, err := resolveInput()
	if err != nil {
		return err
	}
	fmt.Printf("准备处理PDF文件: %s\n", absPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PDFExtractTimeout())
	defer cancel()

	extractor, err := newPDFExtractor(ctx, cfg)
	if err != nil {
		return fmt.Errorf("创建PDF提取器失败: %w", err)
	}

	startTime := time.Now()
	text, metadata, err := extractor.ExtractFromFile(ctx, absPath)
	if err != nil {
		return fmt.Errorf("提取PDF文本失败: %w", err)
	}
	fmt.Printf("提取完成! 耗时: %v\n", time.Since(startTime))

	fmt.Printf("\n===== 提取的文本 (总计 %d 字符) =====\n", utf8.RuneCountInString(text))
	displayText, truncated := utils.TruncateRunes(text, *maxLen)
	if truncated {
		displayText += "...(已截断，使用 --maxlen 参数显示更多)"
	}
	fmt.Println(displayText)

	fmt.Println("\n===== 元数据 =====")
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, metadata[k])
	}

	if *saveFile != "" {
		if err := os.WriteFile(*saveFile, []byte(text), 0644); err != nil {
			return fmt.Errorf("保存到文件失败: %w", err)
		}
		fmt.Printf("文本已保存到: %s\n", *saveFile)
	}
	return nil
}

// 处理简历解析命令，PDF 先提取文本
func handleParseCommand(cfg *config.Config) error {
	absPath, err := resolveInput()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PDFExtractTimeout())
	defer cancel()

	var result *processor.ParseResult
	if strings.EqualFold(filepath.Ext(absPath), ".pdf") {
		pdfExtractor, err := newPDFExtractor(ctx, cfg)
		if err != nil {
			return fmt.Errorf("创建PDF提取器失败: %w", err)
		}
		service := processor.NewResumeServiceFromConfig(cfg, pdfExtractor, nil, appCoreLogger.Named("resumeprocessor"))

		file, err := os.Open(absPath)
		if err != nil {
			return fmt.Errorf("打开文件失败: %w", err)
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("读取文件信息失败: %w", err)
		}
		result, err = service.ParsePDF(ctx, file, filepath.Base(absPath), info.Size(), "application/pdf")
		if err != nil {
			return describe(err)
		}
	} else {
		data, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}
		service := processor.NewResumeServiceFromConfig(cfg, nil, nil, appCoreLogger.Named("resumeprocessor"))
		result, err = service.ParseText(ctx, string(data))
		if err != nil {
			return describe(err)
		}
	}

	return printJSON(result)
}

func resolveInput() (string, error) {
	if *inputFile == "" {
		return "", errors.New("必须提供简历文件路径，使用 --file 参数")
	}
	absPath, err := filepath.Abs(*inputFile)
	if err != nil {
		return "", fmt.Errorf("无法获取文件的绝对路径: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("无法访问文件 %s: %w", absPath, err)
	}
	return absPath, nil
}

// describe 把处理错误转成可读说明
func describe(err error) error {
	if msg := processor.PublicMessage(err); msg != "internal error" {
		return errors.New(msg)
	}
	return err
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化结果失败: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
