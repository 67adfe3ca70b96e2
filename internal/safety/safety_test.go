package safety

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Safe(t *testing.T) {
	c := New()
	for _, cmd := range []string{
		"ls -la",
		"cd /home/user",
		"echo 'hello'",
		"cat file.txt",
		"grep 'pattern' file.txt",
		"git status",
	} {
		t.Run(cmd, func(t *testing.T) {
			a := c.Check(cmd)
			assert.Equal(t, Safe, a.Level)
			assert.Nil(t, a.Warning)
			require.NotNil(t, a.Reasons)
			assert.Empty(t, a.Reasons)
		})
	}
}

func TestCheck_Dangerous(t *testing.T) {
	c := New()
	for _, cmd := range []string{
		"rm -rf /",
		"RM -RF /",
		"sudo rm -rf /*",
		"rm -rf --no-preserve-root /",
		"dd if=/dev/zero of=/dev/sda",
		"mkfs.ext4 /dev/sda1",
		"sudo mkfs -t ext4 /dev/sdb",
		"cat image.bin > /dev/sdb",
	} {
		t.Run(cmd, func(t *testing.T) {
			a := c.Check(cmd)
			assert.Equal(t, Dangerous, a.Level)
			require.NotNil(t, a.Warning)
			assert.Contains(t, *a.Warning, "DANGEROUS")
			assert.NotEmpty(t, a.Reasons)
		})
	}
}

func TestCheck_Warning(t *testing.T) {
	c := New()
	for _, cmd := range []string{
		"rm -rf /tmp/build",
		"sudo rm -rf /var",
		"rm -fr /home",
		"sudo chmod -R 777 /etc",
		"sudo chown -R user:group /",
		"shred secrets.txt",
		"  sudo   rm   -rf   /home  ",
	} {
		t.Run(cmd, func(t *testing.T) {
			a := c.Check(cmd)
			assert.Equal(t, Warning, a.Level)
			require.NotNil(t, a.Warning)
			assert.Contains(t, *a.Warning, "WARNING")
			assert.NotEmpty(t, a.Reasons)
		})
	}
}

func TestCheck_Reasons(t *testing.T) {
	c := New()
	tests := []struct {
		cmd  string
		want string
	}{
		{"rm -rf /etc", "Destructive operation on critical path: /etc"},
		{"rm -rf /bin", "Destructive operation on critical path: /bin"},
		{"dd if=/dev/zero of=/dev", "Destructive operation on critical path: /dev"},
		{"rm -rf --no-preserve-root /", "Bypasses root protection (--no-preserve-root)"},
		{"sudo rm -rf /opt/app", "Dangerous sudo command detected"},
		{"sudo rm -f /opt/app/lock", "Forced system operation"},
		{"fdisk -l", "Contains destructive pattern: fdisk"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Contains(t, c.Check(tt.cmd).Reasons, tt.want)
		})
	}
}

func TestCheck_CriticalPathNeedsDestructiveVerb(t *testing.T) {
	a := New().Check("ls /etc")
	assert.Equal(t, Safe, a.Level)
}

func TestCheck_CaseInsensitive(t *testing.T) {
	c := New()
	lower := c.Check("sudo dd if=img of=/dev/sdb")
	upper := c.Check("SUDO DD IF=img OF=/dev/SDB")
	assert.Equal(t, lower.Level, upper.Level)
	assert.Equal(t, lower.Reasons, upper.Reasons)
}

func TestHelpers(t *testing.T) {
	c := New()
	assert.True(t, c.IsSafe("ls -la"))
	assert.False(t, c.IsSafe("rm -rf /"))
	assert.Empty(t, c.WarningMessage("ls -la"))
	assert.True(t, strings.HasPrefix(c.WarningMessage("rm -rf /"), "⚠️"))
}
