package fixes

// Defaults returns the pattern set written when no store exists.
func Defaults() []Pattern {
	return []Pattern{
		{
			Pattern:     `permission denied`,
			Category:    "permissions",
			Description: "Permission error when executing command",
			Fixes: []string{
				"Try using sudo: sudo <command>",
				"Check file permissions: ls -l <file>",
				"Change permissions: chmod +x <file>",
			},
		},
		{
			Pattern:     `command not found`,
			Category:    "not_found",
			Description: "Command not found in PATH",
			Fixes: []string{
				"Install the command using your package manager",
				"Check if the command is in your PATH: echo $PATH",
				"Try using the full path to the executable",
			},
		},
		{
			Pattern:     `No such file or directory`,
			Category:    "file_not_found",
			Description: "File or directory does not exist",
			Fixes: []string{
				"Check the file path: ls <directory>",
				"Create the directory: mkdir -p <directory>",
				"Verify you're in the correct directory: pwd",
			},
		},
		{
			Pattern:     `git.*Your local changes.*would be overwritten`,
			Category:    "git",
			Description: "Git merge/pull would overwrite local changes",
			Fixes: []string{
				"Stash your changes: git stash",
				"Commit your changes: git add . && git commit -m 'message'",
				"Discard changes: git checkout -- .",
			},
		},
		{
			Pattern:     `git.*fatal: not a git repository`,
			Category:    "git",
			Description: "Not inside a git repository",
			Fixes: []string{
				"Initialize git repository: git init",
				"Clone a repository: git clone <url>",
				"Navigate to a git repository directory",
			},
		},
		{
			Pattern:     `npm.*EACCES.*permission denied`,
			Category:    "npm",
			Description: "NPM permission error",
			Fixes: []string{
				"Fix npm permissions: sudo chown -R $USER ~/.npm",
				"Use npx instead of global install",
				"Configure npm to use a different directory",
			},
		},
		{
			Pattern:     `pip.*externally-managed-environment`,
			Category:    "python",
			Description: "PIP externally managed environment (PEP 668)",
			Fixes: []string{
				"Use a virtual environment: python -m venv venv && source venv/bin/activate",
				"Use pipx for tools: pipx install <package>",
				"Use --break-system-packages (not recommended)",
			},
		},
		{
			Pattern:     `docker.*Cannot connect to the Docker daemon`,
			Category:    "docker",
			Description: "Cannot connect to Docker daemon",
			Fixes: []string{
				"Start Docker daemon: sudo systemctl start docker",
				"Add user to docker group: sudo usermod -aG docker $USER",
				"Check Docker status: sudo systemctl status docker",
			},
		},
		{
			Pattern:     `disk.*full|No space left on device`,
			Category:    "disk",
			Description: "Disk full error",
			Fixes: []string{
				"Check disk usage: df -h",
				"Find large files: du -sh * | sort -h",
				"Clean package cache (Ubuntu/Debian): sudo apt-get clean",
				"Clean Docker: docker system prune -a",
			},
		},
		{
			Pattern:     `port.*already in use`,
			Category:    "network",
			Description: "Port already in use",
			Fixes: []string{
				"Find process using port: lsof -i :<port>",
				"Kill process: kill -9 <pid>",
				"Use a different port in your configuration",
			},
		},
	}
}
