package event

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"

	"github.com/denisbrodbeck/machineid"
)

// distinctId 设备的匿名唯一标识符
var distinctId string

const (
	// hashKey 生成哈希时使用的应用密钥
	hashKey = "forge"
	// fallbackId 无法获取设备标识时的回退值
	fallbackId = "unknown"
)

// getDistinctId 获取设备的唯一标识符
// 优先使用受保护的机器ID，失败时退回到MAC地址哈希，再失败则使用固定回退值
func getDistinctId() string {
	if id, err := machineid.ProtectedID(hashKey); err == nil {
		return id
	}
	if macAddr, err := getMacAddr(); err == nil {
		return hashString(macAddr)
	}
	return fallbackId
}

// getMacAddr 返回第一个已启用、非回环且分配了地址的网络接口的MAC地址
func getMacAddr() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 && len(iface.HardwareAddr) > 0 {
			if addrs, err := iface.Addrs(); err == nil && len(addrs) > 0 {
				return iface.HardwareAddr.String(), nil
			}
		}
	}
	return "", fmt.Errorf("未找到具有MAC地址的活动网络接口")
}

// hashString 使用 HMAC-SHA256 对字符串哈希，返回十六进制结果
func hashString(str string) string {
	hash := hmac.New(sha256.New, []byte(str))
	hash.Write([]byte(hashKey))
	return hex.EncodeToString(hash.Sum(nil))
}
