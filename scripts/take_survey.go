// 在终端里完整走一遍问卷并提交到服务端
//
// 问卷数据优先从服务端 /api/survey 获取，失败时使用内置问卷。
//
// 用法: go run scripts/take_survey.go -server http://localhost:3001 -source campaignX

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"health_survey_backend/internal/config"
	"health_survey_backend/pkg/fixture"
	"health_survey_backend/pkg/surveyclient"
	"health_survey_backend/pkg/surveyflow"
	"io"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const barWidth = 40

func defaultServer(configFile string) string {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return "http://localhost:3001"
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil || cfg.Server.Port == "" {
		return "http://localhost:3001"
	}
	return "http://localhost:" + cfg.Server.Port
}

func loadSurvey(client *surveyclient.Client) *fixture.Survey {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	survey, err := client.FetchSurvey(ctx)
	if err != nil {
		log.Printf("获取问卷失败，使用内置问卷: %v", err)
		return fixture.Default()
	}
	return survey
}

func printQuestion(v surveyflow.View) {
	fmt.Printf("\n[%d/%d] %s  (%.0f%%)\n", v.Index+1, v.Total, v.Question.Category, v.Progress*100)
	fmt.Println(v.Question.Prompt)
	for i, option := range v.Question.Options {
		fmt.Printf("  %d) %s\n", i+1, option)
	}
	if v.Question.AllowsMultiple {
		fmt.Println("可多选：输入编号切换选项（例如 1,3），直接回车确认")
	}
}

func printComparison(v surveyflow.View) {
	if len(v.Comparison) == 0 {
		return
	}
	fmt.Println("\nคำตอบของคนอื่น ๆ:")
	for _, entry := range v.Comparison {
		n := entry.Percentage * barWidth / 100
		marker := " "
		if slices.Contains(v.Selected, entry.Label) {
			marker = "*"
		}
		fmt.Printf(" %s %-32s %s %d%%\n", marker, entry.Label, strings.Repeat("█", n), entry.Percentage)
	}
}

// parseChoices 把 "1,3" 这样的输入转换成选项文字
func parseChoices(line string, options []string) ([]string, error) {
	var picked []string
	for _, field := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(options) {
			return nil, fmt.Errorf("无效的编号: %s", field)
		}
		picked = append(picked, options[n-1])
	}
	return picked, nil
}

func answerQuestion(session *surveyflow.Session, in *bufio.Reader) error {
	v := session.View()
	printQuestion(v)

	for !session.View().Revealed {
		fmt.Print("> ")
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return err
		}
		line = strings.TrimSpace(line)

		if v.Question.AllowsMultiple && line == "" {
			if err := session.Confirm(); err != nil {
				fmt.Println(err)
			}
			continue
		}

		choices, err := parseChoices(line, v.Question.Options)
		if err != nil || len(choices) == 0 {
			fmt.Println("请输入选项编号")
			continue
		}

		if !v.Question.AllowsMultiple {
			if err := session.Select(choices[0]); err != nil {
				fmt.Println(err)
			}
			continue
		}

		for _, choice := range choices {
			if err := session.Toggle(choice); err != nil {
				fmt.Println(err)
			}
		}
		fmt.Printf("已选择: %s\n", strings.Join(session.View().Selected, ", "))
	}

	printComparison(session.View())
	fmt.Print("\n回车继续...")
	_, err := in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func main() {
	configFile := flag.String("config", "configs/config.yaml", "用于读取默认端口的配置文件")
	server := flag.String("server", "", "服务端地址，默认使用配置文件中的端口")
	source := flag.String("source", "", "来源标记（相当于 URL 路径后缀）")
	flag.Parse()

	root := *server
	if root == "" {
		root = defaultServer(*configFile)
	}

	client := surveyclient.New(root, 0)
	survey := loadSurvey(client)

	session := surveyflow.NewSession(survey, client, *source)
	if err := session.Start(); err != nil {
		log.Fatalf("无法开始问卷: %v", err)
	}
	fmt.Printf("%s (%d ข้อ)\n", survey.Title(), survey.Len())

	in := bufio.NewReader(os.Stdin)
	for session.Phase() == surveyflow.InProgress {
		if err := answerQuestion(session, in); err != nil {
			log.Fatalf("读取输入失败: %v", err)
		}
		if err := session.Advance(context.Background()); err != nil {
			log.Fatalf("无法进入下一题: %v", err)
		}
	}

	completion, err := session.Completion()
	if err != nil {
		log.Fatalf("问卷未完成: %v", err)
	}

	fmt.Println()
	fmt.Println(completion.Banner())
	for _, line := range completion.Lines() {
		fmt.Println(line)
	}

	if !completion.Outcome.Succeeded() {
		os.Exit(1)
	}
	log.Printf("提交成功, id=%s, answers=%d", completion.Outcome.ID, len(session.Answers()))
}
