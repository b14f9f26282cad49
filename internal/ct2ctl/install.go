package ct2ctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const ctranslate2Repo = "https://github.com/OpenNMT/CTranslate2.git"

// installShim clones CTranslate2 under third_party/ and builds the shared
// library together with the C shim the cgo build links against. With cuda
// set the engine is compiled with GPU support.
func installShim(cuda bool) error {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		return fmt.Errorf("shim build supports linux and darwin, not %s", runtime.GOOS)
	}
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	vendorDir := filepath.Join(root, "third_party", "ctranslate2")
	srcDir := filepath.Join(vendorDir, "src")
	buildDir := filepath.Join(vendorDir, "build")

	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		if err := os.MkdirAll(vendorDir, 0o755); err != nil {
			return err
		}
		info("[shim] Cloning CTranslate2 into %s", srcDir)
		if err := runCmdStreaming(context.Background(), "git", "clone", "--recursive", "--depth", "1", ctranslate2Repo, srcDir); err != nil {
			return err
		}
	} else {
		info("[shim] Updating CTranslate2 in %s", srcDir)
		_ = runCmdVerbose(context.Background(), "git", "-C", srcDir, "pull", "--ff-only")
	}

	cmakeArgs := []string{
		"-S", srcDir,
		"-B", buildDir,
		"-DCMAKE_BUILD_TYPE=Release",
		"-DBUILD_CLI=OFF",
	}
	if cuda {
		cmakeArgs = append(cmakeArgs, "-DWITH_CUDA=ON", "-DWITH_CUDNN=ON")
	} else {
		cmakeArgs = append(cmakeArgs, "-DWITH_MKL=OFF", "-DWITH_OPENBLAS=ON")
	}
	info("[shim] Configuring CMake (cuda=%v)", cuda)
	if err := runCmdStreaming(context.Background(), "cmake", cmakeArgs...); err != nil {
		return err
	}
	info("[shim] Building libctranslate2")
	if err := runCmdStreaming(context.Background(), "cmake", "--build", buildDir, "--parallel"); err != nil {
		return err
	}

	// The shim itself: one translation unit against the engine's C++ API.
	shimSrc := filepath.Join(root, "third_party", "shim", "ct2shim.cc")
	if _, err := os.Stat(shimSrc); os.IsNotExist(err) {
		return fmt.Errorf("shim source %s not found", shimSrc)
	}
	info("[shim] Building libct2shim")
	return runCmdInDir(context.Background(), root, "c++",
		"-std=c++17", "-O2", "-fPIC", "-shared",
		"-I", filepath.Join(srcDir, "include"),
		"-I", filepath.Join(root, "internal", "ct2"),
		"-o", filepath.Join(buildDir, "libct2shim.so"),
		shimSrc,
		"-L", buildDir, "-lctranslate2")
}

// installGo downloads module dependencies.
func installGo() error {
	info("==== Download Go modules ====")
	return runCmdStreaming(context.Background(), "go", "mod", "download")
}
