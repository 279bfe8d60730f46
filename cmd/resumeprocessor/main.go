package main

import (
	"fmt"
	"os"

	"ats-engine/internal/config"
	appCoreLogger "ats-engine/internal/logger"

	"github.com/spf13/pflag"
)

// 命令行参数定义
var (
	command        = pflag.String("cmd", "parse", "执行的命令: extract=仅提取PDF文本, parse=解析简历, match=人岗匹配")
	inputFile      = pflag.StringP("file", "f", "", "简历文件路径 (.pdf 或 .txt)")
	jobFile        = pflag.String("job", "", "岗位 JSON 文件路径 (match)")
	candidatesFile = pflag.String("candidates", "", "候选人 JSON 数组文件路径 (match)")
	minScore       = pflag.Int("min-score", -1, "最低分，只保留严格大于它的候选人，负数表示使用配置")
	limit          = pflag.Int("limit", -1, "返回的候选人数上限，0 表示不限，负数表示使用配置")
	maxLen         = pflag.Int("maxlen", 1000, "显示的文本最大字符数，设为-1显示全部")
	saveFile       = pflag.String("save", "", "把提取的文本保存到文件 (extract)")
	configPath     = pflag.StringP("config", "c", "", "配置文件路径，为空时查找 config.yaml")
	verbose        = pflag.Bool("verbose", false, "输出调试日志")
)

func main() {
	pflag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	appCoreLogger.Init(appCoreLogger.Config{Level: level, Format: "pretty", TimeFormat: "15:04:05"})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	switch *command {
	case "extract":
		err = handleExtractCommand(cfg)
	case "parse":
		err = handleParseCommand(cfg)
	case "match":
		err = handleMatchCommand(cfg)
	default:
		err = fmt.Errorf("未知命令 '%s'。支持的命令: extract, parse, match", *command)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		pflag.Usage()
		os.Exit(1)
	}
}
