// Package update 检查 GitHub 上是否发布了新版本。
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// releasesURL 最新发布版本的 GitHub API 地址
	releasesURL = "https://api.github.com/repos/purpose168/forge-cn/releases/latest"
	// userAgent HTTP 请求的用户代理
	userAgent = "forge/1.0"
)

// Default 是默认的更新客户端
var Default Client = &githubClient{}

// Info 包含可用更新的信息
type Info struct {
	Current string // 当前版本
	Latest  string // 最新版本
	URL     string // 发布页面链接
}

// goInstallRegexp 匹配 go install 生成的伪版本字符串，例如：
// v0.0.0-0.20251231235959-06c807842604
var goInstallRegexp = regexp.MustCompile(`^v?\d+\.\d+\.\d+-\d+\.\d{14}-[0-9a-f]{12}$`)

// IsDevelopment 判断当前版本是否为开发版本
// 版本为 "devel"、"unknown"、带有 "dirty" 标记或为 go install 伪版本时视为开发版本
func (i Info) IsDevelopment() bool {
	return i.Current == "devel" || i.Current == "unknown" || strings.Contains(i.Current, "dirty") || goInstallRegexp.MatchString(i.Current)
}

// Available 判断是否有可用更新
//
// 两个版本都是稳定版时，版本不同即视为有更新
// 当前版本是预发布版本而最新版本不是时，视为有更新
// 最新版本是预发布版本而当前版本不是时，不提示更新
func (i Info) Available() bool {
	cpr := strings.Contains(i.Current, "-")
	lpr := strings.Contains(i.Latest, "-")

	if cpr && !lpr {
		return true
	}

	if lpr && !cpr {
		return false
	}

	return i.Current != i.Latest
}

// Check 检查是否有新版本可用
func Check(ctx context.Context, current string, client Client) (Info, error) {
	info := Info{
		Current: current,
		Latest:  current,
	}

	release, err := client.Latest(ctx)
	if err != nil {
		return info, fmt.Errorf("获取最新发布版本失败: %w", err)
	}

	info.Latest = strings.TrimPrefix(release.TagName, "v")
	info.Current = strings.TrimPrefix(info.Current, "v")
	info.URL = release.HTMLURL
	return info, nil
}

// Release 表示一个 GitHub 发布版本
type Release struct {
	TagName string `json:"tag_name"` // 版本标签
	HTMLURL string `json:"html_url"` // 发布页面 URL
}

// Client 是一个可以获取最新发布版本的客户端接口
type Client interface {
	// Latest 获取最新发布版本
	Latest(ctx context.Context) (*Release, error)
}

type githubClient struct{}

// Latest 从 GitHub API 获取最新发布版本
func (c *githubClient) Latest(ctx context.Context) (*Release, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("GitHub API 返回状态 %d: %s", resp.StatusCode, string(body))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}

	return &release, nil
}
