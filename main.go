// @title Item Bank 题目分析 API
// @version 1.0
// @description 题库题目难度、区分度与选项分布分析服务。

// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"item_bank_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
