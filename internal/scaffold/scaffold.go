// Package scaffold creates the solution file of a workspace.
package scaffold

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sempr/cph-go/internal/lang"
)

var templates = map[string]string{
	"cpp": `#include <bits/stdc++.h>
using namespace std;

int main() {
    ios::sync_with_stdio(false);
    cin.tie(nullptr);

    return 0;
}
`,
	"py": `import sys


def main():
    data = sys.stdin.read().split()


if __name__ == "__main__":
    main()
`,
	// javac accepts a non-public class in solution.java
	"java": `import java.util.*;

class Solution {
    public static void main(String[] args) {
        Scanner in = new Scanner(System.in);
    }
}
`,
	"js": `const input = require("fs").readFileSync(0, "utf-8").trim();
`,
}

// Create writes <root>/solution.<ext> unless it already exists. Languages
// without a built-in template get an empty file. It reports whether the
// file was created.
func Create(root string, p lang.Profile) (string, bool, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", false, fmt.Errorf("workspace %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("workspace %s is not a directory", root)
	}

	path := filepath.Join(root, p.SourceFile())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			slog.Debug("solution file exists", "path", path)
			return path, false, nil
		}
		return "", false, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(templates[p.Name]); err != nil {
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("solution file created", "path", path)
	return path, true, nil
}
