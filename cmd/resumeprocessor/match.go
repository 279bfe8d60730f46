package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"ats-engine/internal/config"
	appCoreLogger "ats-engine/internal/logger"
	"ats-engine/internal/processor"
)

// 处理人岗匹配命令
// --job 为单个岗位对象，--candidates 为候选人数组
func handleMatchCommand(cfg *config.Config) error {
	if *jobFile == "" || *candidatesFile == "" {
		return errors.New("match 命令需要 --job 和 --candidates 参数")
	}

	jobData, err := os.ReadFile(*jobFile)
	if err != nil {
		return fmt.Errorf("读取岗位文件失败: %w", err)
	}
	candidatesData, err := os.ReadFile(*candidatesFile)
	if err != nil {
		return fmt.Errorf("读取候选人文件失败: %w", err)
	}

	// 拼成与 HTTP 接口相同的请求体，字段错误带完整路径，如 candidates[1].email
	var body bytes.Buffer
	body.WriteString(`{"job":`)
	body.Write(bytes.TrimSpace(jobData))
	body.WriteString(`,"candidates":`)
	body.Write(bytes.TrimSpace(candidatesData))
	body.WriteString(`}`)

	var req processor.MatchCandidatesRequest
	if err := processor.DecodeJSON(body.Bytes(), &req); err != nil {
		return fmt.Errorf("岗位文件 %s / 候选人文件 %s: %w", *jobFile, *candidatesFile, err)
	}
	if *minScore >= 0 {
		req.MinScore = minScore
	}
	if *limit >= 0 {
		req.Limit = limit
	}
	if err := processor.ValidateStruct(&req); err != nil {
		return err
	}

	service := processor.NewMatchServiceFromConfig(cfg, appCoreLogger.Named("resumeprocessor"))
	result := service.MatchCandidates(context.Background(), req)

	fmt.Fprintf(os.Stderr, "%d 个候选人中 %d 个通过筛选\n", len(req.Candidates), len(result.Matches))
	return printJSON(result)
}
