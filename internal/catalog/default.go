package catalog

// Default returns the built-in catalog. Identifiers are winget package IDs;
// other package managers use a catalog file instead.
func Default() *Catalog {
	return New(
		Category{Name: "core", Items: []Item{
			{ID: "Git.Git", Name: "Git"},
			{ID: "Microsoft.PowerShell", Name: "PowerShell"},
			{ID: "Microsoft.WindowsTerminal", Name: "Windows Terminal"},
			{ID: "7zip.7zip", Name: "7-Zip"},
		}},
		Category{Name: "development", Items: []Item{
			{ID: "Microsoft.VisualStudioCode", Name: "Visual Studio Code"},
			{ID: "OpenJS.NodeJS.LTS", Name: "Node.js LTS"},
			{ID: "Python.Python.3.12", Name: "Python 3.12"},
			{ID: "GoLang.Go", Name: "Go"},
			{ID: "GitHub.cli", Name: "GitHub CLI"},
		}},
		Category{Name: "infrastructure", Items: []Item{
			{ID: "Docker.DockerDesktop", Name: "Docker Desktop"},
			{ID: "Hashicorp.Terraform", Name: "Terraform"},
			{ID: "Kubernetes.kubectl", Name: "kubectl"},
			{ID: "Helm.Helm", Name: "Helm"},
			{ID: "Amazon.AWSCLI", Name: "AWS CLI"},
			{ID: "Microsoft.AzureCLI", Name: "Azure CLI"},
		}},
		Category{Name: "utility", Items: []Item{
			{ID: "JanDeDobbeleer.OhMyPosh", Name: "Oh My Posh"},
			{ID: "BurntSushi.ripgrep.MSVC", Name: "ripgrep"},
			{ID: "sharkdp.bat", Name: "bat"},
			{ID: "junegunn.fzf", Name: "fzf"},
			{ID: "jqlang.jq", Name: "jq"},
		}},
	)
}
