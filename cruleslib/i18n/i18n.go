/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

// zhCatalog maps the English format strings used with GetPrinter to their
// Chinese form. English is the source language and needs no entries.
var zhCatalog = map[string]string{
	"Use %d CPU(s)":                             "使用 %d 个 CPU",
	"Start analyzing %s (%v/%v)":                "开始分析 %s (%v/%v)",
	"Analysis of %s completed (%s, %v/%v) [%s]": "%s 分析完成 (%s, %v/%v) [%s]",
	"Ctrl C Pressed. Stop analysis":             "收到 Ctrl C，停止分析",
	"%d lines of C code":                        "%d 行 C 代码",
	"%d lines of headers":                       "%d 行头文件",
	"%d dump files found":                       "找到 %d 个 dump 文件",
	"Generating dumps for %d source files":      "正在为 %d 个源文件生成 dump",
	"nothing to analyze in %s":                  "%s 中没有可分析的文件",
	"Found %d violations":                       "发现 %d 个违规",
	"count: %d rule: %s":                        "数量: %d 规则: %s",
	"%d violations filtered out by baseline":    "基线过滤了 %d 个违规",
	"Baseline written to %s":                    "基线已写入 %s",
	"%d recursive call chains found":            "发现 %d 条递归调用链",
	"Analysis finished [%s]":                    "分析结束 [%s]",
	"%d dump files failed to analyze":           "%d 个 dump 文件分析失败",
	"Repo":                                      "仓库",
	"File":                                      "文件",
	"Rule":                                      "规则",
	"Location":                                  "位置",
	"Message":                                   "信息",
	"Line":                                      "行",
}

var zhSeverity = map[string]string{
	"error":       "错误",
	"warning":     "警告",
	"style":       "风格",
	"performance": "性能",
	"portability": "可移植性",
	"information": "信息",
}

func init() {
	for key, msg := range zhCatalog {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			panic(err)
		}
	}
}

func GetPrinter(lang string) *message.Printer {
	var langTag language.Tag
	if _, exist := languageMap[lang]; exist {
		langTag = languageMap[lang]
	} else {
		langTag = languageMap["en"]
	}
	return message.NewPrinter(langTag)
}

// SeverityLabel is the display name of a severity in lang.
func SeverityLabel(severity, lang string) string {
	if lang == "zh" {
		if label, ok := zhSeverity[severity]; ok {
			return label
		}
	}
	return severity
}

func IsSupported(lang string) bool {
	_, ok := languageMap[lang]
	return ok
}
