package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/organizer"
	"github.com/siherrmann/organizer/model"
)

var sampleChunks = []string{
	`Jennifer Doudna is a biochemist at the University of California, Berkeley.
She co-founded the Innovative Genomics Institute and pioneered the development
of CRISPR gene editing together with Emmanuelle Charpentier.`,

	`CRISPR has transformed molecular biology since its adaptation as a genome
editing tool in 2012. The technique allows precise modification of DNA and
is studied in laboratories around the world.`,

	`In 2020 Jennifer Doudna and Emmanuelle Charpentier were awarded the Nobel
Prize in Chemistry for the development of CRISPR. The prize ceremony was held
in Stockholm.`,
}

func main() {
	o := organizer.NewOrganizer(model.DefaultExtractConfig())

	// Downloads the NER and embedding models on first run. Without an
	// ANTHROPIC_API_KEY the pipeline runs tagger-only.
	if err := o.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	result, err := o.ExtractGraph(context.Background(), sampleChunks, "example-doc")
	if err != nil {
		log.Fatalf("Failed to extract graph: %v", err)
	}

	fmt.Printf("\nExtracted %d entities:\n", len(result.Entities))
	for _, entity := range result.Entities {
		fmt.Printf("  %-12s %-40s confidence=%.2f", entity.Type, entity.Name, entity.Confidence)
		if len(entity.Aliases) > 0 {
			fmt.Printf(" aliases=%v", entity.Aliases)
		}
		fmt.Println()
	}

	fmt.Printf("\nExtracted %d relationships:\n", len(result.Relationships))
	for _, rel := range result.Relationships {
		fmt.Printf("  %s -[%s]-> %s (weight=%.2f, confidence=%.2f)\n",
			rel.SourceEntity, rel.RelationType, rel.TargetEntity, rel.Weight, rel.Confidence)
	}
}
