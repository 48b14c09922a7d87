package ci

import (
	"fmt"
	"strings"
)

// Jenkins tree queries. Each lists exactly the fields the matching node reads.
const (
	changeSetTree  = "changeSet[items[commitId,author[fullName],authorEmail,msg,date]]"
	parametersTree = "actions[parameters[name,value]]"
	commitSubTree  = "subBuilds[buildNumber,jobName,result,url]"

	commitTree = "result,url,number," + changeSetTree + "," + parametersTree + "," + commitSubTree
	prTree     = "result,url,number,subBuilds[phaseName,buildNumber,jobName,result,url,build[" + commitTree + "]]"
	fannedTree = "result,url,number,subBuilds[phaseName,buildNumber,jobName,result,url]"
	normalTree = "result,url,number,runs[number,url,result,builtOn]"
)

// buildData is the union of the Jenkins build fields any node reads.
type buildData struct {
	Result    Result     `json:"result"`
	URL       string     `json:"url"`
	Number    int        `json:"number"`
	ChangeSet changeSet  `json:"changeSet"`
	Actions   []action   `json:"actions"`
	SubBuilds []SubBuild `json:"subBuilds"`
	Runs      []run      `json:"runs"`
}

type changeSet struct {
	Items []changeItem `json:"items"`
}

type changeItem struct {
	CommitID string `json:"commitId"`
	Author   struct {
		FullName string `json:"fullName"`
	} `json:"author"`
	AuthorEmail string `json:"authorEmail"`
	Msg         string `json:"msg"`
	Date        string `json:"date"`
}

type action struct {
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// SubBuild is one downstream build of a multi-job build.
type SubBuild struct {
	PhaseName   string     `json:"phaseName,omitempty"`
	BuildNumber int        `json:"buildNumber"`
	JobName     string     `json:"jobName"`
	Result      Result     `json:"result"`
	URL         string     `json:"url"`
	Build       *buildData `json:"build,omitempty"`
}

type run struct {
	Number  int    `json:"number"`
	URL     string `json:"url"`
	Result  Result `json:"result"`
	BuiltOn string `json:"builtOn"`
}

// Change is the commit a build was started for.
type Change struct {
	CommitID    string `json:"commitId"`
	Author      string `json:"author"`
	AuthorEmail string `json:"authorEmail"`
	Message     string `json:"message"`
	Date        string `json:"date"`
}

// JobPath returns the Jenkins path of build number of job.
func JobPath(job string, number int) string {
	return fmt.Sprintf("job/%s/%d/", job, number)
}

// mergeParameters flattens every action's parameters into one map. Later
// actions win on duplicate names.
func mergeParameters(actions []action) map[string]string {
	params := make(map[string]string)
	for _, a := range actions {
		for _, p := range a.Parameters {
			if p.Value == nil {
				params[p.Name] = ""
				continue
			}
			params[p.Name] = fmt.Sprint(p.Value)
		}
	}
	return params
}

// sourceURL points at the change a commit build tested, derived from its
// trigger parameters.
func sourceURL(params map[string]string) string {
	org := params["TARGET_GITHUB_ORG"]
	if org == "" {
		org = "nodejs"
	}
	repo := params["TARGET_REPO_NAME"]
	if repo == "" {
		repo = "node"
	}

	if id := params["PR_ID"]; id != "" {
		return fmt.Sprintf("https://github.com/%s/%s/pull/%s/", org, repo, id)
	}
	if ref := params["GIT_REMOTE_REF"]; ref != "" {
		ref = strings.TrimPrefix(ref, "refs/heads/")
		return fmt.Sprintf("https://github.com/%s/%s/tree/%s", org, repo, ref)
	}
	return ""
}
