// Command tinyfsdemo is a small, non-interactive walkthrough of the tinyfs
// engine: it formats a disk (if none can be mounted at the given path),
// mounts it, creates a couple of files and writes to them, and prints a
// directory listing, one file's info line and a hex dump of block 1.
//
// Adapted from original_source/tinyFSDemo.c's mount-or-create-then-mkfs
// sequence and its printHexDump helper; kept here only as a runnable
// illustration, not something any correctness guarantee depends on.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/nickambrose7/tinyfs/internal/hexdump"
	"github.com/nickambrose7/tinyfs/tinyfs"
)

func main() {
	diskName := flag.String("disk", tinyfs.DefaultDiskName, "backing file path")
	diskSize := flag.Int("size", tinyfs.DefaultDiskSize, "disk size in bytes, used only if the disk does not already exist")
	flag.Parse()

	fs := tinyfs.New()

	if _, err := fs.Mount(*diskName); err != nil {
		log.Printf("%s not found or not mountable, creating new disk: %v", *diskName, err)
		if err := fs.MkFS(*diskName, *diskSize); err != nil {
			log.Fatalf("mkfs: %v", err)
		}
		if _, err := fs.Mount(*diskName); err != nil {
			log.Fatalf("mount after mkfs: %v", err)
		}
	}
	log.Println("finished initial mounting phase")

	fd1, err := fs.OpenFile("greeting")
	if err != nil {
		log.Fatalf("open greeting: %v", err)
	}
	if err := fs.WriteFile(fd1, []byte("hello from tinyfs")); err != nil {
		log.Fatalf("write greeting: %v", err)
	}

	fd2, err := fs.OpenFile("notes")
	if err != nil {
		log.Fatalf("open notes: %v", err)
	}
	if err := fs.WriteFile(fd2, []byte("a second file in the same flat namespace")); err != nil {
		log.Fatalf("write notes: %v", err)
	}

	log.Println("directory listing:")
	fs.SetOutput(os.Stdout)
	if err := fs.ReadDir(); err != nil {
		log.Fatalf("readdir: %v", err)
	}

	log.Println("greeting info:")
	if err := fs.ReadFileInfo(fd1); err != nil {
		log.Fatalf("read_file_info: %v", err)
	}

	if block, err := fs.DebugReadBlock(1); err == nil {
		log.Println("block 1 hex dump:")
		os.Stdout.WriteString(hexdump.Dump(block, 16))
	}

	if err := fs.CloseFile(fd1); err != nil {
		log.Fatalf("close greeting: %v", err)
	}
	if err := fs.CloseFile(fd2); err != nil {
		log.Fatalf("close notes: %v", err)
	}
	if err := fs.Unmount(); err != nil {
		log.Fatalf("unmount: %v", err)
	}
}
